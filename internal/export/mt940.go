package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/textutils"
)

const (
	mt940Newline      = "\r\n"
	mt940NarrativeMax = 65
)

// MT940Formatter writes a single-statement MT940 (SWIFT customer statement)
// file. Amounts use a comma as decimal separator.
type MT940Formatter struct {
	opts Options
}

// NewMT940Formatter creates an MT940Formatter.
func NewMT940Formatter(opts Options) *MT940Formatter {
	return &MT940Formatter{opts: opts.withDefaults()}
}

// Format implements Formatter.
//
// Without an explicit opening balance :60F: is a zero credit balance at the
// export date, and :62F: carries the sum of the exported amounts.
func (f *MT940Formatter) Format(req models.ExportRequest) (*Result, error) {
	b, err := prepare(req, f.opts)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if f.opts.OpeningBalance != nil {
		opening = f.opts.OpeningBalance.Round(2)
	}
	closing := opening.Add(b.total)
	exportDate := b.now.Format(dateutils.LayoutCompact)

	var lines []string
	lines = append(lines,
		":20:BSCPRO"+b.now.Format(dateutils.LayoutTimestamp),
		":25:"+b.iban,
		":28C:00001/1",
		":60F:"+mt940Balance(opening, exportDate),
	)
	for i, r := range b.rows {
		lines = append(lines,
			fmt.Sprintf(":61:%s%s%sNTRF%04d",
				r.date.Format(dateutils.LayoutShort),
				mt940Mark(r.tx.Amount),
				currencyutils.FormatComma(r.tx.Amount),
				i+1),
			":86:"+mt940Narrative(r.tx.Description),
		)
	}
	lines = append(lines, ":62F:"+mt940Balance(closing, exportDate))

	content := strings.Join(lines, mt940Newline) + mt940Newline + "-"

	return &Result{
		Bytes:       []byte(content),
		ContentType: "text/plain",
		Filename:    fmt.Sprintf("BSC-PRO-%s-MT940.sta", b.bank),
		Warnings:    b.warnings,
	}, nil
}

func mt940Mark(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "D"
	}
	return "C"
}

func mt940Balance(amount decimal.Decimal, date string) string {
	return mt940Mark(amount) + date + Currency + currencyutils.FormatComma(amount)
}

// mt940Narrative makes a description safe for a :86: line: one line, no
// colons that could start a new tag, no apostrophes, at most 65 characters.
func mt940Narrative(description string) string {
	s := textutils.StripControl(description)
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", ":", " ", "'", "").Replace(s)
	s = strings.TrimSpace(textutils.Truncate(s, mt940NarrativeMax))
	if s == "" {
		return DefaultDescription
	}
	return s
}
