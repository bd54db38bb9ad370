package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCarriersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "carriers",
		Short: "List supported carrier keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.setup()
			if err != nil {
				return err
			}
			defer closeFn()

			carriers := svc.Carriers()
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), carriers)
			}

			for _, c := range carriers {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", labelStyle.Render(c.Key), c.Source)
			}
			return nil
		},
	}
}
