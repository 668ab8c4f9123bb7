package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"bscpro/bank-export/internal/camtparser"
	"bscpro/bank-export/internal/common"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
	"bscpro/bank-export/internal/textextract"
	"bscpro/bank-export/internal/validation"
)

// Loader turns an input file into pipeline Input. The file type is chosen
// by extension: .json and .csv hold transaction rows, .xml a CAMT.053
// statement, anything else is treated as statement text (PDFs through the
// configured text extractor).
type Loader struct {
	text   textextract.TextExtractor
	camt   *camtparser.Parser
	logger logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(text textextract.TextExtractor, camt *camtparser.Parser, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Loader{text: text, camt: camt, logger: logger}
}

// Load reads path into an Input. Only the transaction source and, where the
// file carries one, the account IBAN are filled in.
func (l *Loader) Load(ctx context.Context, path string) (Input, error) {
	if err := validation.IsReadableFile(path); err != nil {
		return Input{}, &pipelineerror.ExtractionError{Source: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return l.loadJSON(path)
	case ".csv":
		rows, err := common.ReadTransactionsCSVFile(path, l.logger)
		if err != nil {
			return Input{}, err
		}
		return Input{Transactions: rows}, nil
	case ".xml":
		return l.loadCAMT(path)
	default:
		text, err := l.text.ExtractText(ctx, path)
		if err != nil {
			return Input{}, err
		}
		return Input{Text: text}, nil
	}
}

func (l *Loader) loadJSON(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, &pipelineerror.ExtractionError{Source: path, Err: err}
	}

	// Both a bare array and an export request body are accepted.
	var rows []models.RawTransaction
	if err := json.Unmarshal(data, &rows); err == nil {
		return Input{Transactions: rows}, nil
	}
	var body struct {
		Transactions []models.RawTransaction `json:"transactions"`
		Bank         string                  `json:"bank"`
		IBAN         string                  `json:"rekeningnummer"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return Input{}, &pipelineerror.InputError{Field: "json", Reason: err.Error()}
	}
	return Input{Transactions: body.Transactions, Bank: body.Bank, IBAN: body.IBAN}, nil
}

func (l *Loader) loadCAMT(path string) (Input, error) {
	statements, err := l.camt.ParseFile(path)
	if err != nil {
		return Input{}, err
	}

	var in Input
	for _, s := range statements {
		in.Transactions = append(in.Transactions, s.Transactions...)
		if in.IBAN == "" {
			in.IBAN = s.IBAN
		}
	}
	if in.IBAN == "" {
		in.IBAN = common.FindIBANInFilename(path).IBAN
	}
	return in, nil
}
