package main

import "parcel-tracker/cmd/track/cmd"

func main() {
	cmd.Execute()
}
