// Package pipeline wires extraction, classification and export into the
// single operation shared by the CLI and the HTTP API.
package pipeline

import (
	"context"
	"strings"

	"bscpro/bank-export/internal/categorizer"
	"bscpro/bank-export/internal/common"
	"bscpro/bank-export/internal/export"
	"bscpro/bank-export/internal/extractor"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

// Input is one pipeline run. Transactions takes precedence over Text; Text
// is only parsed when no pre-parsed rows are given.
type Input struct {
	Transactions []models.RawTransaction
	Text         string

	Format string
	Bank   string
	IBAN   string
	User   models.UserMetadata

	// Classifications, when non-nil, are used as-is instead of running
	// the categorization engine.
	Classifications map[string]models.Classification
}

// Batch is the classified transaction list produced before formatting.
type Batch struct {
	Transactions    []models.Transaction
	Classifications map[string]models.Classification
	Bank            string
	IBAN            string
	User            models.UserMetadata
	Warnings        []string
}

// Request returns the export request for the batch.
func (b *Batch) Request() models.ExportRequest {
	return models.ExportRequest{
		Transactions:    b.Transactions,
		Classifications: b.Classifications,
		Bank:            b.Bank,
		IBAN:            b.IBAN,
		User:            b.User,
	}
}

// Output is the result of a full run.
type Output struct {
	Batch  *Batch
	Result *export.Result
}

// Service runs the pipeline. It keeps no per-call state.
type Service struct {
	extractor *extractor.Extractor
	engine    *categorizer.Engine
	registry  *export.Registry
	logger    logging.Logger
}

// NewService creates a Service.
func NewService(ext *extractor.Extractor, engine *categorizer.Engine, registry *export.Registry, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Service{
		extractor: ext,
		engine:    engine,
		registry:  registry,
		logger:    logger.WithField(logging.FieldComponent, "pipeline"),
	}
}

// Registry returns the formatter registry used by Run.
func (s *Service) Registry() *export.Registry {
	return s.registry
}

// Extract normalizes the pre-parsed rows of in, or extracts transactions
// from its text, without classifying them. Bank and IBAN are taken from the
// statement text when the input leaves them empty.
func (s *Service) Extract(ctx context.Context, in Input) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &Batch{Bank: strings.TrimSpace(in.Bank), IBAN: strings.TrimSpace(in.IBAN), User: in.User}

	switch {
	case len(in.Transactions) > 0:
		txs, rowErrs := s.extractor.Normalize(in.Transactions)
		b.Transactions = txs
		for _, err := range rowErrs {
			b.Warnings = append(b.Warnings, err.Error())
		}
	case strings.TrimSpace(in.Text) != "":
		b.Transactions = s.extractor.Extract(in.Text)
		if b.Bank == "" {
			if bank := extractor.DetectBank(in.Text); bank != extractor.BankGeneric {
				b.Bank = string(bank)
			}
		}
		if b.IBAN == "" {
			b.IBAN = common.FindIBAN(in.Text).IBAN
		}
	default:
		return nil, &pipelineerror.InputError{Field: "transactions", Reason: "no transactions or statement text supplied"}
	}

	if len(b.Transactions) == 0 {
		return nil, &pipelineerror.InputError{Field: "transactions", Reason: "no valid transactions found"}
	}
	return b, nil
}

// Prepare extracts and classifies the input. Classifications supplied with
// the input are used as-is.
func (s *Service) Prepare(ctx context.Context, in Input) (*Batch, error) {
	b, err := s.Extract(ctx, in)
	if err != nil {
		return nil, err
	}

	if in.Classifications != nil {
		b.Classifications = in.Classifications
		return b, nil
	}
	s.Classify(ctx, b)
	return b, nil
}

// Classify runs the categorization engine over the batch for its user,
// replacing any classifications it already holds.
func (s *Service) Classify(ctx context.Context, b *Batch) {
	b.Classifications = s.engine.ClassifyTransactions(ctx, b.Transactions, b.User.UserID)
	common.CollectClassificationStats(b.Transactions, b.Classifications).LogSummary(s.logger, "pipeline")
}

// Run prepares the input and renders it in the requested format. Row
// warnings from preparation precede those of the formatter.
func (s *Service) Run(ctx context.Context, in Input) (*Output, error) {
	if _, err := s.registry.Get(in.Format); err != nil {
		return nil, err
	}

	b, err := s.Prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	result, err := s.Format(b, in.Format)
	if err != nil {
		return nil, err
	}
	return &Output{Batch: b, Result: result}, nil
}

// Format renders a prepared batch. The batch warnings are prepended to the
// formatter's own.
func (s *Service) Format(b *Batch, format string) (*export.Result, error) {
	formatter, err := s.registry.Get(format)
	if err != nil {
		return nil, err
	}

	result, err := formatter.Format(b.Request())
	if err != nil {
		s.logger.WithError(err).Warn("Export failed",
			logging.Field{Key: logging.FieldFormat, Value: format})
		return nil, err
	}
	result.Warnings = append(append([]string(nil), b.Warnings...), result.Warnings...)

	s.logger.Info("Export completed",
		logging.Field{Key: logging.FieldFormat, Value: format},
		logging.Field{Key: logging.FieldFilename, Value: result.Filename},
		logging.Field{Key: logging.FieldCount, Value: len(b.Transactions)},
		logging.Field{Key: "warnings", Value: len(result.Warnings)})

	return result, nil
}
