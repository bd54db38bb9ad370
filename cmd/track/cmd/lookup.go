package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/features/tracking/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	labelStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	deliveredStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	unregisteredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	unavailableStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	plainStyle        = lipgloss.NewStyle()
)

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <carrier> <tracking-number>",
		Short: "Show the current status of a parcel",
		Example: `  track lookup sagawa 1234-5678-9012
  track lookup japanpost EJ123456789JP --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := a.setup()
			if err != nil {
				return err
			}
			defer closeFn()
			defer logger.Sync()

			result, err := svc.Lookup(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printResult(cmd.OutOrStdout(), domain.ParseCarrier(args[0]), result)
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, carrier domain.Carrier, result *domain.TrackingResult) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Carrier:"), carrier)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Status: "), statusStyle(result.Status).Render(result.Status))
	if result.Time != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Time:   "), result.Time)
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case domain.StatusDelivered:
		return deliveredStyle
	case domain.StatusUnregistered:
		return unregisteredStyle
	case domain.StatusUnavailable, domain.StatusUnknown:
		return unavailableStyle
	default:
		return plainStyle
	}
}
