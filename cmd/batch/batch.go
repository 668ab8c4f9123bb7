// Package batch implements the batch command: every statement in a directory
// is exported, with one consolidated file per bank account.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/batch"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/fileutils"
	"bscpro/bank-export/internal/logging"
)

// Options holds the batch command flags.
type Options struct {
	InputDir  string
	OutputDir string
	Format    string
	Bank      string
}

var opts Options

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Export every statement in a directory",
	Long: `Batch reads every statement in the input directory, merges the files that
belong to the same account in date order, and writes one export per account
to the output directory. Files that cannot be read are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := run(cmd.Context(), root.AppContainer, root.SharedFlags.User, opts)
		for _, path := range written {
			cmd.Println(path)
		}
		return err
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.InputDir, "input-dir", "", "Directory with statements")
	Cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory for the exports")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "Export format: csv, mt940, camt, qbo or xlsx")
	Cmd.Flags().StringVar(&opts.Bank, "bank", "", "Bank name used when a statement names none")
	_ = Cmd.MarkFlagRequired("input-dir")
	_ = Cmd.MarkFlagRequired("output-dir")
}

// run returns the files written. An error is returned when no account
// could be exported; failures of single files are only logged.
func run(ctx context.Context, c *container.Container, user string, opts Options) ([]string, error) {
	logger := c.GetLogger()
	svc := c.GetPipeline()
	format := strings.ToLower(opts.Format)
	if _, err := svc.Registry().Get(format); err != nil {
		return nil, err
	}

	files, err := fileutils.ListFilesWithExtensions(opts.InputDir, fileutils.StatementExtensions...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no statements found in %s", opts.InputDir)
	}

	var sources []batch.Source
	for _, path := range files {
		in, err := root.LoadInput(ctx, c, path, user)
		if err != nil {
			logger.WithError(err).Warn("Skipping unreadable statement", logging.Field{Key: logging.FieldInputFile, Value: path})
			continue
		}
		if in.Bank == "" {
			in.Bank = opts.Bank
		}
		b, err := svc.Extract(ctx, in)
		if err != nil {
			logger.WithError(err).Warn("Skipping statement without transactions", logging.Field{Key: logging.FieldInputFile, Value: path})
			continue
		}
		sources = append(sources, batch.Source{Path: path, Batch: b})
	}

	var written []string
	for _, g := range batch.NewAggregator(logger).GroupByAccount(sources) {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		svc.Classify(ctx, g.Batch)
		res, err := svc.Format(g.Batch, format)
		if err != nil {
			logger.WithError(err).Warn("Skipping account", logging.Field{Key: "account", Value: g.IBAN})
			continue
		}

		path := filepath.Join(opts.OutputDir, batch.OutputFilename(g, filepath.Ext(res.Filename)))
		if err := fileutils.WriteFile(path, res.Bytes); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("no exports produced from %d statements", len(files))
	}
	logger.Info("Batch completed",
		logging.Field{Key: logging.FieldCount, Value: len(written)},
		logging.Field{Key: "statements", Value: len(files)})
	return written, nil
}
