package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bscpro/bank-export/internal/common"
	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/validation"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type categoryRow struct {
	Category      string `csv:"Categorie"`
	GrootboekCode string `csv:"Grootboek"`
	Count         int    `csv:"Aantal"`
	Total         string `csv:"Totaal"`
	Percentage    string `csv:"Percentage"`
}

type btwRow struct {
	Rate      string `csv:"BTW_Percentage"`
	Count     int    `csv:"Aantal"`
	Total     string `csv:"Totaal"`
	BTWAmount string `csv:"BTW_Bedrag"`
	NetAmount string `csv:"Netto"`
}

// Generator renders summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Generator{logger: logger.WithField(logging.FieldComponent, "report")}
}

// Generate renders s as "json" or "csv". The CSV output holds the category
// table, a blank line and the BTW table, separated by semicolons.
func (g *Generator) Generate(s Summary, format string) ([]byte, error) {
	if err := validation.IsValidReportFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return g.generateJSON(s)
	default:
		return g.generateCSV(s)
	}
}

func (g *Generator) generateJSON(s Summary) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateCSV(s Summary) ([]byte, error) {
	categories := make([]categoryRow, 0, len(s.Categories))
	for _, c := range s.Categories {
		categories = append(categories, categoryRow{
			Category:      c.Category,
			GrootboekCode: c.GrootboekCode,
			Count:         c.Count,
			Total:         currencyutils.FormatDot(c.Total),
			Percentage:    c.Percentage.StringFixed(1),
		})
	}
	rates := make([]btwRow, 0, len(s.BTW))
	for _, b := range s.BTW {
		rates = append(rates, btwRow{
			Rate:      b.Label,
			Count:     b.Count,
			Total:     currencyutils.FormatDot(b.Total),
			BTWAmount: currencyutils.FormatDot(b.BTWAmount),
			NetAmount: currencyutils.FormatDot(b.NetAmount),
		})
	}

	var buf bytes.Buffer
	if err := common.WriteCSV(&buf, categories, ';'); err != nil {
		g.logger.WithError(err).Error("Failed to write category summary")
		return nil, err
	}
	buf.WriteString("\n")
	if err := common.WriteCSV(&buf, rates, ';'); err != nil {
		g.logger.WithError(err).Error("Failed to write BTW summary")
		return nil, err
	}
	return buf.Bytes(), nil
}
