// Package summary implements the summary command.
package summary

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/report"
)

var format string

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a statement per category and BTW rate",
	Long: `Summary classifies the transactions of a statement and reports the total
per category and the BTW contained in the amounts per rate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), root.AppContainer, root.SharedFlags, format, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatJSON, "Report format: json or csv")
}

func run(ctx context.Context, c *container.Container, flags root.CommonFlags, format string, w io.Writer) error {
	in, err := root.LoadInput(ctx, c, flags.Input, flags.User)
	if err != nil {
		return err
	}
	b, err := c.GetPipeline().Prepare(ctx, in)
	if err != nil {
		return err
	}

	out, err := c.GetReportGenerator().Generate(report.Build(b.Transactions, b.Classifications), format)
	if err != nil {
		return err
	}
	return root.WriteOutput(w, flags.Output, out)
}
