// Package extract implements the extract command: statement in, normalized
// transactions out, without classification.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/common"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipeline"
)

var format string

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract transactions from a bank statement",
	Long: `Extract reads a statement and prints the transactions found in it as JSON
or as CSV that can be fed back into classify or export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), root.AppContainer, root.SharedFlags, format, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or csv")
}

func run(ctx context.Context, c *container.Container, flags root.CommonFlags, format string, w io.Writer) error {
	in, err := root.LoadInput(ctx, c, flags.Input, flags.User)
	if err != nil {
		return err
	}
	b, err := c.GetPipeline().Extract(ctx, in)
	if err != nil {
		return err
	}

	logger := c.GetLogger()
	for _, warning := range b.Warnings {
		logger.Warn("Skipped row", logging.Field{Key: logging.FieldReason, Value: warning})
	}

	out, err := render(b, format)
	if err != nil {
		return err
	}
	return root.WriteOutput(w, flags.Output, out)
}

func render(b *pipeline.Batch, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(b.Transactions, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transactions: %w", err)
		}
		return append(out, '\n'), nil
	case "csv":
		rows := make([]models.RawTransaction, 0, len(b.Transactions))
		for _, tx := range b.Transactions {
			rows = append(rows, models.RawTransaction{
				ID:           tx.ID,
				Date:         tx.Date,
				Description:  tx.Description,
				Amount:       models.RawAmount(tx.Amount.StringFixed(2)),
				Counterparty: tx.Counterparty,
			})
		}
		var buf bytes.Buffer
		if err := common.WriteCSV(&buf, rows, ','); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
