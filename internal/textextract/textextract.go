// Package textextract obtains plain text from statement documents. PDF
// conversion is delegated to the external pdftotext tool.
package textextract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/pipelineerror"
)

// TextExtractor extracts the text content of a document on disk.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PDFToText runs `pdftotext -layout` on PDF files.
type PDFToText struct {
	Binary  string
	Timeout time.Duration
	logger  logging.Logger
}

// NewPDFToText creates an extractor using binary (default "pdftotext").
func NewPDFToText(binary string, timeout time.Duration, logger logging.Logger) *PDFToText {
	if binary == "" {
		binary = "pdftotext"
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &PDFToText{Binary: binary, Timeout: timeout, logger: logger}
}

// ExtractText converts the PDF at path and returns its text. Layout mode is
// used so that the columns of a statement row stay on one line.
func (p *PDFToText) ExtractText(ctx context.Context, path string) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Binary, "-layout", "-enc", "UTF-8", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		p.logger.WithError(err).Error("Failed to run pdftotext",
			logging.Field{Key: logging.FieldInputFile, Value: path},
			logging.Field{Key: logging.FieldReason, Value: strings.TrimSpace(stderr.String())})
		return "", &pipelineerror.ExtractionError{Source: path, Err: fmt.Errorf("error running %s: %w", p.Binary, err)}
	}
	return stdout.String(), nil
}

// FileReader reads text documents directly and hands PDFs to a
// TextExtractor.
type FileReader struct {
	pdf TextExtractor
}

// NewFileReader creates a FileReader that uses pdf for .pdf files.
func NewFileReader(pdf TextExtractor) *FileReader {
	return &FileReader{pdf: pdf}
}

// ExtractText implements TextExtractor.
func (r *FileReader) ExtractText(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		if r.pdf == nil {
			return "", &pipelineerror.ExtractionError{Source: path, Err: fmt.Errorf("no PDF extractor configured")}
		}
		return r.pdf.ExtractText(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &pipelineerror.ExtractionError{Source: path, Err: err}
	}
	return string(data), nil
}

// MockExtractor returns canned text. It is used by tests of the layers
// above text extraction.
type MockExtractor struct {
	Text  string
	Err   error
	Paths []string
}

// ExtractText records path and returns the canned result.
func (m *MockExtractor) ExtractText(_ context.Context, path string) (string, error) {
	m.Paths = append(m.Paths, path)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}
