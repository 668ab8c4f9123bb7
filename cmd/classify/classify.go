// Package classify implements the classify command.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/btw"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipeline"
)

var asJSON bool

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify the transactions of a statement",
	Long: `Classify extracts the transactions of a statement and shows the category,
ledger code and BTW rate assigned to each by the user's rules and the BTW
detector.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), root.AppContainer, root.SharedFlags, asJSON, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print transactions and classifications as JSON")
}

type classifiedRow struct {
	Transaction    models.Transaction    `json:"transaction"`
	Classification models.Classification `json:"classification"`
	Trust          btw.Trust             `json:"btw_trust"`
}

func run(ctx context.Context, c *container.Container, flags root.CommonFlags, asJSON bool, w io.Writer) error {
	in, err := root.LoadInput(ctx, c, flags.Input, flags.User)
	if err != nil {
		return err
	}
	b, err := c.GetPipeline().Prepare(ctx, in)
	if err != nil {
		return err
	}

	rows := classifiedRows(b)
	var out []byte
	if asJSON {
		out, err = json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal classifications: %w", err)
		}
		out = append(out, '\n')
	} else {
		out = table(rows)
	}
	return root.WriteOutput(w, flags.Output, out)
}

func classifiedRows(b *pipeline.Batch) []classifiedRow {
	detector := btw.NewDetector()
	rows := make([]classifiedRow, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		cl, ok := b.Classifications[tx.ID]
		if !ok {
			cl = models.Classification{CategoryName: models.UnclassifiedCategory, BTWRate: models.BTWUnknown}
		}
		result := detector.Detect(tx.Counterparty, tx.Description, cl.CategoryName)
		rows = append(rows, classifiedRow{
			Transaction:    tx,
			Classification: cl,
			Trust:          btw.TrustScore(result, tx.Counterparty),
		})
	}
	return rows
}

func table(rows []classifiedRow) []byte {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATUM\tBEDRAG\tOMSCHRIJVING\tCATEGORIE\tGROOTBOEK\tBTW\tMETHODE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Transaction.Date,
			currencyutils.FormatDot(r.Transaction.Amount),
			r.Transaction.Description,
			r.Classification.CategoryName,
			r.Classification.GrootboekCode,
			models.FormatBTW(r.Classification.BTWRate),
			r.Classification.Method)
	}
	_ = tw.Flush()
	return buf.Bytes()
}
