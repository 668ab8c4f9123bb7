// Package common provides helpers shared by the input sources of the
// pipeline: CSV transaction files, statement text and classification stats.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"

	"github.com/gocarina/gocsv"
)

// headerAliases maps the Dutch column names used by bank downloads and by
// our own CSV export onto the RawTransaction csv tags.
var headerAliases = map[string]string{
	"datum":               "date",
	"boekdatum":           "date",
	"omschrijving":        "description",
	"bedrag":              "amount",
	"bedrag (eur)":        "amount",
	"tegenpartij":         "counterparty",
	"naam":                "counterparty",
	"naam / omschrijving": "description",
	"tegenrekening":       "counterparty_account",
	"kenmerk":             "id",
}

// DetectDelimiter guesses the field separator from a header line. Dutch
// spreadsheet exports use semicolons; everything else defaults to a comma.
func DetectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	if strings.Count(header, "\t") > strings.Count(header, ",") {
		return '\t'
	}
	return ','
}

// ReadTransactionsCSV reads transactions from CSV data with a header row.
// Recognized columns are id, date, description, amount and counterparty,
// or their Dutch equivalents. A delimiter of 0 is detected from the header.
func ReadTransactionsCSV(r io.Reader, delimiter rune) ([]models.RawTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading CSV data: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, &pipelineerror.InputError{Field: "csv", Reason: "file is empty"}
	}
	if delimiter == 0 {
		firstLine, _, _ := strings.Cut(text, "\n")
		delimiter = DetectDelimiter(firstLine)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &pipelineerror.InputError{Field: "csv", Reason: err.Error()}
	}

	header := records[0]
	hasDate := false
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		header[i] = name
		hasDate = hasDate || name == "date"
	}
	if !hasDate {
		return nil, &pipelineerror.InputError{Field: "csv", Reason: "header has no date column"}
	}

	var rows []models.RawTransaction
	if err := gocsv.UnmarshalCSV(&recordReader{records: records}, &rows); err != nil {
		return nil, &pipelineerror.InputError{Field: "csv", Reason: err.Error()}
	}
	return rows, nil
}

// ReadTransactionsCSVFile reads the CSV transaction file at path.
func ReadTransactionsCSVFile(path string, logger logging.Logger) ([]models.RawTransaction, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	logger.Info("Reading CSV file", logging.Field{Key: logging.FieldInputFile, Value: path})

	file, err := os.Open(path)
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, &pipelineerror.ExtractionError{Source: path, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	rows, err := ReadTransactionsCSV(file, 0)
	if err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, err
	}

	logger.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteCSV marshals rows with gocsv using the given delimiter.
func WriteCSV[T any](w io.Writer, rows []T, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// recordReader replays already-read records to gocsv after the header has
// been normalized.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}
