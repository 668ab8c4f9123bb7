// Package export implements the export command.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/common"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/fileutils"
	"bscpro/bank-export/internal/logging"
)

// Options holds the export command flags.
type Options struct {
	Format         string
	Bank           string
	IBAN           string
	CompanyName    string
	OpeningBalance string
}

var opts Options

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a statement as CSV, MT940, CAMT.053 or QBO",
	Long: `Export extracts and classifies the transactions of a statement and writes
them in the requested accounting format. Without --output the file is
written to the working directory under its suggested name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := run(cmd.Context(), root.AppContainer, root.SharedFlags, opts)
		if err != nil {
			return err
		}
		cmd.Println(path)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "Export format: csv, mt940, camt, qbo or xlsx")
	Cmd.Flags().StringVar(&opts.Bank, "bank", "", "Bank name used in filenames (detected from the statement when empty)")
	Cmd.Flags().StringVar(&opts.IBAN, "iban", "", "Account IBAN (detected from the statement when empty)")
	Cmd.Flags().StringVar(&opts.CompanyName, "company", "", "Account holder name for CAMT.053")
	Cmd.Flags().StringVar(&opts.OpeningBalance, "opening-balance", "", "Opening balance, e.g. 1250,00")
}

// run exports the input file and returns the path written.
func run(ctx context.Context, c *container.Container, flags root.CommonFlags, opts Options) (string, error) {
	in, err := root.LoadInput(ctx, c, flags.Input, flags.User)
	if err != nil {
		return "", err
	}
	in.Format = strings.ToLower(opts.Format)
	if opts.Bank != "" {
		in.Bank = opts.Bank
	}
	if opts.IBAN != "" {
		in.IBAN = opts.IBAN
	}
	in.User.CompanyName = opts.CompanyName

	svc := c.GetPipeline()
	if opts.OpeningBalance != "" {
		balance, err := currencyutils.ParseAmount(opts.OpeningBalance)
		if err != nil {
			return "", fmt.Errorf("invalid opening balance: %w", err)
		}
		exportOpts := c.GetExportOptions()
		exportOpts.OpeningBalance = &balance
		svc = c.PipelineWithOptions(exportOpts)
	}

	out, err := svc.Run(ctx, in)
	if err != nil {
		return "", err
	}

	logger := c.GetLogger()
	for _, warning := range out.Result.Warnings {
		logger.Warn("Export warning", logging.Field{Key: logging.FieldReason, Value: warning})
	}

	path := fileutils.ResolveOutputPath(flags.Output, common.SanitizeFilename(out.Result.Filename))
	if err := fileutils.WriteFile(path, out.Result.Bytes); err != nil {
		return "", err
	}
	logger.Info("Export written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(out.Batch.Transactions)})
	return path, nil
}
