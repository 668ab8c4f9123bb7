package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/report"
)

// Sheet names of the workbook.
const (
	SheetTransactions = "Transacties"
	SheetBTW          = "BTW Overzicht"
)

// xlsxHeaderRow is the row of the transaction table header; the rows above
// it hold the title and the generation line.
const xlsxHeaderRow = 4

const euroFormat = "€#,##0.00"

var (
	xlsxTransactionHeader = []interface{}{"Datum", "Omschrijving", "Categorie", "BTW %", "Bedrag", "Saldo", "IBAN"}
	xlsxBTWHeader         = []interface{}{"Categorie", "Aantal", "Subtotaal ex BTW", "BTW Bedrag", "Totaal incl BTW", "BTW %"}
)

// XLSXFormatter writes an Excel workbook with a transaction sheet (running
// balance and income/expense totals) and a BTW summary sheet.
type XLSXFormatter struct {
	opts Options
}

// NewXLSXFormatter creates an XLSXFormatter.
func NewXLSXFormatter(opts Options) *XLSXFormatter {
	return &XLSXFormatter{opts: opts.withDefaults()}
}

// Format implements Formatter. Saldo starts at the opening balance when one
// is configured and at zero otherwise.
func (f *XLSXFormatter) Format(req models.ExportRequest) (*Result, error) {
	b, err := prepare(req, f.opts)
	if err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	styles, err := newXLSXStyles(wb)
	if err != nil {
		return nil, err
	}
	if err := wb.SetSheetName(wb.GetSheetName(0), SheetTransactions); err != nil {
		return nil, fmt.Errorf("failed to name transaction sheet: %w", err)
	}
	if err := f.writeTransactions(wb, b, styles); err != nil {
		return nil, fmt.Errorf("failed to write transaction sheet: %w", err)
	}
	if _, err := wb.NewSheet(SheetBTW); err != nil {
		return nil, fmt.Errorf("failed to create BTW sheet: %w", err)
	}
	if err := writeBTWSheet(wb, b, styles); err != nil {
		return nil, fmt.Errorf("failed to write BTW sheet: %w", err)
	}
	wb.SetActiveSheet(0)

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &Result{
		Bytes:       buf.Bytes(),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Filename:    fmt.Sprintf("BSC-PRO-%s-Export.xlsx", strings.Join(strings.Fields(b.bank), "_")),
		Warnings:    b.warnings,
	}, nil
}

type xlsxStyles struct {
	header, money, income, expense, bold, stripe int
}

func newXLSXStyles(wb *excelize.File) (xlsxStyles, error) {
	euro := euroFormat
	border := []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	defs := []*excelize.Style{
		{
			Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1A3A5C"}},
			Border: border,
		},
		{CustomNumFmt: &euro},
		{CustomNumFmt: &euro, Font: &excelize.Font{Color: "16A34A"}},
		{CustomNumFmt: &euro, Font: &excelize.Font{Color: "DC2626"}},
		{CustomNumFmt: &euro, Font: &excelize.Font{Bold: true}},
		{Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F8F9FA"}}},
	}
	var s xlsxStyles
	targets := []*int{&s.header, &s.money, &s.income, &s.expense, &s.bold, &s.stripe}
	for i, def := range defs {
		id, err := wb.NewStyle(def)
		if err != nil {
			return xlsxStyles{}, fmt.Errorf("failed to create cell style: %w", err)
		}
		*targets[i] = id
	}
	return s, nil
}

func (f *XLSXFormatter) writeTransactions(wb *excelize.File, b *batch, styles xlsxStyles) error {
	const sheet = SheetTransactions

	iban := ""
	if b.ibanProvided {
		iban = b.iban
	}

	rows := [][]interface{}{
		{b.owner + " - Bankafschrift Export"},
		{"Gegenereerd door BSCPro.nl | " + b.now.Format(dateutils.LayoutStatement)},
		{},
		xlsxTransactionHeader,
	}

	balance := decimal.Zero
	if f.opts.OpeningBalance != nil {
		balance = f.opts.OpeningBalance.Round(2)
	}
	income, expenses := decimal.Zero, decimal.Zero
	for _, r := range b.rows {
		balance = balance.Add(r.tx.Amount)
		if r.tx.IsCredit() {
			income = income.Add(r.tx.Amount)
		} else {
			expenses = expenses.Add(r.tx.Amount)
		}

		category, rate := models.UnclassifiedCategory, models.BTWUnknown
		if r.classified {
			rate = r.classification.BTWRate
			if r.classification.CategoryName != "" {
				category = r.classification.CategoryName
			}
		}
		rows = append(rows, []interface{}{
			r.date.Format(dateutils.LayoutStatement),
			singleLine(r.tx.Description),
			category,
			models.FormatBTW(rate),
			r.tx.Amount.InexactFloat64(),
			balance.InexactFloat64(),
			iban,
		})
	}

	totalsRow := xlsxHeaderRow + len(b.rows) + 2
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"", "", "", "Totaal Inkomsten:", income.InexactFloat64()},
		[]interface{}{"", "", "", "Totaal Uitgaven:", expenses.InexactFloat64()},
		[]interface{}{"", "", "", "Saldo:", income.Add(expenses).InexactFloat64()},
		[]interface{}{},
		[]interface{}{"Gegenereerd door BSCPro.nl"},
		[]interface{}{"AVG-proof | Data automatisch verwijderd"},
	)
	if err := setRows(wb, sheet, rows); err != nil {
		return err
	}

	if err := wb.SetCellStyle(sheet, "A4", "G4", styles.header); err != nil {
		return err
	}
	for i, r := range b.rows {
		n := xlsxHeaderRow + 1 + i
		if i%2 == 1 {
			if err := wb.SetCellStyle(sheet, cell("A", n), cell("G", n), styles.stripe); err != nil {
				return err
			}
		}
		amountStyle := styles.income
		if !r.tx.IsCredit() {
			amountStyle = styles.expense
		}
		if err := wb.SetCellStyle(sheet, cell("E", n), cell("E", n), amountStyle); err != nil {
			return err
		}
		if err := wb.SetCellStyle(sheet, cell("F", n), cell("F", n), styles.money); err != nil {
			return err
		}
	}
	for i, style := range []int{styles.income, styles.expense, styles.bold} {
		n := totalsRow + i
		if err := wb.SetCellStyle(sheet, cell("E", n), cell("E", n), style); err != nil {
			return err
		}
	}

	return setWidths(wb, sheet, []float64{12, 40, 20, 12, 15, 15, 25})
}

func writeBTWSheet(wb *excelize.File, b *batch, styles xlsxStyles) error {
	const sheet = SheetBTW

	txs := make([]models.Transaction, 0, len(b.rows))
	classifications := make(map[string]models.Classification)
	for _, r := range b.rows {
		txs = append(txs, r.tx)
		if r.classified && r.tx.ID != "" {
			classifications[r.tx.ID] = r.classification
		}
	}
	summary := report.Build(txs, classifications)

	rows := [][]interface{}{xlsxBTWHeader}
	for _, line := range summary.BTW {
		rows = append(rows, []interface{}{
			btwSheetLabel(line.Rate),
			line.Count,
			line.NetAmount.InexactFloat64(),
			line.BTWAmount.InexactFloat64(),
			line.Total.InexactFloat64(),
			line.Label,
		})
	}
	if err := setRows(wb, sheet, rows); err != nil {
		return err
	}

	if err := wb.SetCellStyle(sheet, "A1", "F1", styles.header); err != nil {
		return err
	}
	if len(summary.BTW) > 0 {
		if err := wb.SetCellStyle(sheet, "C2", cell("E", len(summary.BTW)+1), styles.money); err != nil {
			return err
		}
	}
	return setWidths(wb, sheet, []float64{25, 12, 18, 15, 18, 12})
}

func btwSheetLabel(rate models.BTWRate) string {
	switch rate {
	case models.BTW21:
		return "Standaard BTW (21%)"
	case models.BTW9:
		return "Lage BTW (9%)"
	case models.BTW0:
		return "Overig (0%)"
	case models.BTWExempt:
		return "Vrijgesteld"
	}
	return "Onbekend tarief"
}

func setRows(wb *excelize.File, sheet string, rows [][]interface{}) error {
	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		values := values
		if err := wb.SetSheetRow(sheet, cell("A", i+1), &values); err != nil {
			return err
		}
	}
	return nil
}

func setWidths(wb *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := wb.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
