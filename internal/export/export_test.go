package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bscpro/bank-export/internal/camtparser"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

var exportTime = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{Clock: FixedClock(exportTime)}
}

func tx(id, date, description, amount string) models.Transaction {
	return models.Transaction{ID: id, Date: date, Description: description, Amount: decimal.RequireFromString(amount)}
}

func albertHeijnRequest() models.ExportRequest {
	return models.ExportRequest{
		Transactions: []models.Transaction{tx("t1", "15-01-2024", "Albert Heijn B.V.", "-85.43")},
		Bank:         "ING",
		IBAN:         "NL20INGB0001234567",
	}
}

func twoTransactionRequest() models.ExportRequest {
	return models.ExportRequest{
		Transactions: []models.Transaction{
			tx("t1", "10-01-2024", "Factuur 2024-001", "100.00"),
			tx("t2", "12-01-2024", "KPN abonnement", "-30.00"),
		},
		Bank: "ING",
		IBAN: "NL20INGB0001234567",
	}
}

func csvLines(t *testing.T, res *Result) []string {
	t.Helper()
	require.True(t, bytes.HasPrefix(res.Bytes, []byte(csvBOM)), "missing byte order mark")
	body := strings.TrimPrefix(string(res.Bytes), csvBOM)
	return strings.Split(strings.TrimSuffix(body, "\n"), "\n")
}

func TestCSVFormatter_SingleDebit(t *testing.T) {
	res, err := NewCSVFormatter(testOptions()).Format(albertHeijnRequest())
	require.NoError(t, err)

	lines := csvLines(t, res)
	require.Len(t, lines, 2)
	assert.Equal(t, "Datum;Omschrijving;Categorie;Grootboek;BTW_Percentage;Bedrag;Saldo;IBAN;Tegenrekening;Methode", lines[0])

	fields := strings.Split(lines[1], ";")
	require.Len(t, fields, 10)
	assert.Equal(t, "15-01-2024", fields[0])
	assert.Equal(t, `"Albert Heijn B.V."`, fields[1])
	assert.Equal(t, "Onbekend", fields[4])
	assert.Equal(t, "-85.43", fields[5])
	assert.Equal(t, "-85.43", fields[6])
	assert.Equal(t, "NL20INGB0001234567", fields[7])
	assert.Equal(t, MethodManual, fields[9])

	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)
	assert.Equal(t, "ING_transacties_maart_2024.csv", res.Filename)
	assert.Empty(t, res.Warnings)
}

func TestCSVFormatter_ClassificationColumns(t *testing.T) {
	req := twoTransactionRequest()
	req.Classifications = map[string]models.Classification{
		"t2": {
			CategoryName:  "Telefoon; internet",
			GrootboekCode: "4300",
			BTWRate:       models.BTW21,
			Method:        models.MethodRuleMatch,
		},
		"t1": {
			CategoryName: models.UnclassifiedCategory,
			BTWRate:      models.BTWExempt,
			Method:       models.MethodFallback,
		},
	}

	res, err := NewCSVFormatter(testOptions()).Format(req)
	require.NoError(t, err)
	lines := csvLines(t, res)
	require.Len(t, lines, 3)

	assert.Equal(t, `10-01-2024;"Factuur 2024-001";Niet geclassificeerd;;Vrijgesteld;100.00;100.00;NL20INGB0001234567;;Handmatig`, lines[1])
	assert.Equal(t, `12-01-2024;"KPN abonnement";"Telefoon; internet";4300;21%;-30.00;70.00;NL20INGB0001234567;;Automatisch`, lines[2])
}

func TestCSVFormatter_LastSaldoEqualsSum(t *testing.T) {
	req := models.ExportRequest{
		Transactions: []models.Transaction{
			tx("a", "01-02-2024", "a", "10.10"),
			tx("b", "02-02-2024", "b", "-3.33"),
			tx("c", "03-02-2024", "c", "0.01"),
			tx("d", "04-02-2024", "d", "-100"),
		},
		IBAN: "NL20INGB0001234567",
	}
	res, err := NewCSVFormatter(testOptions()).Format(req)
	require.NoError(t, err)

	lines := csvLines(t, res)
	last := strings.Split(lines[len(lines)-1], ";")
	assert.Equal(t, "-93.22", last[6])
}

func TestCSVFormatter_QuotesAndLineBreaks(t *testing.T) {
	req := models.ExportRequest{
		Transactions: []models.Transaction{tx("t1", "15-01-2024", "Zegt \"hallo\"\nop; twee regels", "-1.00")},
		IBAN:         "NL20INGB0001234567",
	}
	res, err := NewCSVFormatter(testOptions()).Format(req)
	require.NoError(t, err)

	lines := csvLines(t, res)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Zegt ""hallo"" op; twee regels"`)
}

func TestCSVFormatter_MissingIBANLeavesColumnEmpty(t *testing.T) {
	req := albertHeijnRequest()
	req.IBAN = ""
	req.Bank = ""

	res, err := NewCSVFormatter(testOptions()).Format(req)
	require.NoError(t, err)

	fields := strings.Split(csvLines(t, res)[1], ";")
	assert.Equal(t, "", fields[7])
	assert.Equal(t, "Bank_transacties_maart_2024.csv", res.Filename)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], DefaultPlaceholderIBAN)
}

func TestMT940Formatter_SingleDebit(t *testing.T) {
	res, err := NewMT940Formatter(testOptions()).Format(albertHeijnRequest())
	require.NoError(t, err)

	content := string(res.Bytes)
	assert.True(t, strings.HasSuffix(content, "\r\n-"))
	assert.NotContains(t, strings.ReplaceAll(content, "\r\n", ""), "\n")

	lines := strings.Split(strings.TrimSuffix(content, "\r\n-"), "\r\n")
	assert.Equal(t, []string{
		":20:BSCPRO20240305143000",
		":25:NL20INGB0001234567",
		":28C:00001/1",
		":60F:C20240305EUR0,00",
		":61:240115D85,43NTRF0001",
		":86:Albert Heijn B.V.",
		":62F:D20240305EUR85,43",
	}, lines)

	assert.Equal(t, "text/plain", res.ContentType)
	assert.Equal(t, "BSC-PRO-ING-MT940.sta", res.Filename)
}

func TestMT940Formatter_ClosingBalanceSign(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ExportRequest
		opening *decimal.Decimal
		want    string
	}{
		{
			name: "positive sum is credit",
			req:  twoTransactionRequest(),
			want: ":62F:C20240305EUR70,00",
		},
		{
			name: "negative sum is debit",
			req:  albertHeijnRequest(),
			want: ":62F:D20240305EUR85,43",
		},
		{
			name:    "explicit opening balance is carried",
			req:     albertHeijnRequest(),
			opening: decimalPtr("1000"),
			want:    ":62F:C20240305EUR914,57",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.OpeningBalance = tt.opening
			res, err := NewMT940Formatter(opts).Format(tt.req)
			require.NoError(t, err)
			assert.Contains(t, string(res.Bytes), tt.want+"\r\n-")
		})
	}
}

func TestMT940Formatter_SequenceNumbers(t *testing.T) {
	res, err := NewMT940Formatter(testOptions()).Format(twoTransactionRequest())
	require.NoError(t, err)

	content := string(res.Bytes)
	assert.Contains(t, content, ":61:240110C100,00NTRF0001\r\n:86:Factuur 2024-001\r\n")
	assert.Contains(t, content, ":61:240112D30,00NTRF0002\r\n:86:KPN abonnement\r\n")
}

func TestMT940Narrative(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Albert Heijn", "Albert Heijn"},
		{"colon cannot open a tag", "Ref:123 :61:fake", "Ref 123  61 fake"},
		{"apostrophe removed", "Kapsalon 't Hoekje", "Kapsalon t Hoekje"},
		{"line breaks flattened", "regel een\r\nregel twee", "regel een regel twee"},
		{"empty gets default", "  ", DefaultDescription},
		{"truncated", strings.Repeat("x", 80), strings.Repeat("x", 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mt940Narrative(tt.in))
		})
	}
}

func TestCAMTFormatter_SingleDebit(t *testing.T) {
	res, err := NewCAMTFormatter(testOptions()).Format(albertHeijnRequest())
	require.NoError(t, err)

	content := string(res.Bytes)
	assert.True(t, strings.HasPrefix(content, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, content, `<Amt Ccy="EUR">85.43</Amt>`)
	assert.Contains(t, content, `<CdtDbtInd>DBIT</CdtDbtInd>`)
	assert.Contains(t, content, `<MsgId>BSCPRO1709649000000</MsgId>`)
	assert.Contains(t, content, `<Id>STMT20240305</Id>`)
	assert.Contains(t, content, `<IBAN>NL20INGB0001234567</IBAN>`)
	assert.Contains(t, content, `<Nm>Bedrijf</Nm>`)

	assert.Equal(t, "application/xml", res.ContentType)
	assert.Equal(t, "NL20INGB0001234567_2024-03-05.xml", res.Filename)
}

func TestCAMTFormatter_BalancesPrecedeEntries(t *testing.T) {
	res, err := NewCAMTFormatter(testOptions()).Format(twoTransactionRequest())
	require.NoError(t, err)

	content := string(res.Bytes)
	lastBal := strings.LastIndex(content, "</Bal>")
	firstNtry := strings.Index(content, "<Ntry>")
	require.Positive(t, lastBal)
	require.Positive(t, firstNtry)
	assert.Less(t, lastBal, firstNtry)
}

func TestCAMTFormatter_OpeningBalance(t *testing.T) {
	tests := []struct {
		name        string
		req         models.ExportRequest
		opening     *decimal.Decimal
		wantOpening string
		wantClosing string
	}{
		{
			name:        "positive sum",
			req:         twoTransactionRequest(),
			wantOpening: "70.00",
			wantClosing: "70.00",
		},
		{
			name:        "negative sum clamps opening at zero",
			req:         albertHeijnRequest(),
			wantOpening: "0.00",
			wantClosing: "-85.43",
		},
		{
			name:        "explicit opening balance",
			req:         twoTransactionRequest(),
			opening:     decimalPtr("250.5"),
			wantOpening: "250.50",
			wantClosing: "320.50",
		},
	}

	parser := camtparser.NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.OpeningBalance = tt.opening
			res, err := NewCAMTFormatter(opts).Format(tt.req)
			require.NoError(t, err)

			statements, err := parser.Parse(bytes.NewReader(res.Bytes))
			require.NoError(t, err)
			require.Len(t, statements, 1)

			opening, ok := statements[0].Balance(models.BalanceOpening)
			require.True(t, ok)
			assert.Equal(t, tt.wantOpening, opening.StringFixed(2))

			closing, ok := statements[0].Balance(models.BalanceClosing)
			require.True(t, ok)
			assert.Equal(t, tt.wantClosing, closing.StringFixed(2))
		})
	}
}

func TestCAMTFormatter_RoundTrip(t *testing.T) {
	req := models.ExportRequest{
		Transactions: []models.Transaction{
			{ID: "t1", Date: "15-01-2024", Description: "Tom & Jerry <Ltd> \"quoted\"", Amount: decimal.RequireFromString("-85.43"), Counterparty: "Tom & Jerry"},
			{ID: "t2", Date: "20-01-2024", Description: "Klant\x01betaling", Amount: decimal.RequireFromString("155.43"), Counterparty: "Klant B.V."},
		},
		IBAN: "NL20 INGB 0001 2345 67",
		User: models.UserMetadata{CompanyName: "Bakkerij & Zn"},
	}

	res, err := NewCAMTFormatter(testOptions()).Format(req)
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes), "Tom &amp; Jerry &lt;Ltd&gt;")

	statements, err := camtparser.NewParser(nil).Parse(bytes.NewReader(res.Bytes))
	require.NoError(t, err)
	require.Len(t, statements, 1)

	s := statements[0]
	assert.Equal(t, "NL20INGB0001234567", s.IBAN)
	assert.Equal(t, "Bakkerij & Zn", s.Owner)
	require.Len(t, s.Transactions, 2)

	assert.Equal(t, "2024-01-15", s.Transactions[0].Date)
	assert.Equal(t, `Tom & Jerry <Ltd> "quoted"`, s.Transactions[0].Description)
	assert.Equal(t, models.RawAmount("-85.43"), s.Transactions[0].Amount)
	assert.Equal(t, "Tom & Jerry", s.Transactions[0].Counterparty)

	assert.Equal(t, "Klantbetaling", s.Transactions[1].Description)
	assert.Equal(t, models.RawAmount("155.43"), s.Transactions[1].Amount)
	assert.Equal(t, "Klant B.V.", s.Transactions[1].Counterparty)
}

func TestQBOFormatter(t *testing.T) {
	req := twoTransactionRequest()
	req.Transactions[1].Counterparty = "KPN B.V."
	req.Classifications = map[string]models.Classification{
		"t2": {CategoryName: "Telefoon", GrootboekCode: "4300", BTWRate: models.BTW21, Method: models.MethodRuleMatch},
	}

	res, err := NewQBOFormatter(testOptions()).Format(req)
	require.NoError(t, err)

	content := string(res.Bytes)
	assert.True(t, strings.HasPrefix(content, "OFXHEADER:100\nDATA:OFXSGML\n"))
	assert.Contains(t, content, "<INTU.BID>3710</INTU.BID>")
	assert.Contains(t, content, "<DTSTART>20240110</DTSTART>")
	assert.Contains(t, content, "<DTEND>20240112</DTEND>")
	assert.Contains(t, content, "<FITID>20240110-0-10000</FITID>")
	assert.Contains(t, content, "<NAME>Factuur</NAME>")
	assert.Contains(t, content, "<TRNTYPE>DEBIT</TRNTYPE>")
	assert.Contains(t, content, "<TRNAMT>-30.00</TRNAMT>")
	assert.Contains(t, content, "<NAME>KPN B.V.</NAME>")
	assert.Contains(t, content, "<MEMO>KPN abonnement</MEMO>")
	assert.Contains(t, content, "<CATEGORY>BTW 21%</CATEGORY>")
	assert.Contains(t, content, "<BALAMT>70.00</BALAMT>")
	assert.Equal(t, 1, strings.Count(content, "<CATEGORY>"))

	assert.Equal(t, "application/vnd.intu.qbo", res.ContentType)
	assert.Equal(t, "BSC-PRO-ING-QBO.qbo", res.Filename)
}

func TestQBOText(t *testing.T) {
	assert.Equal(t, "Tom &amp; Jerry&apos;s &lt;shop&gt;", qboText("Tom & Jerry's\n<shop>"))
	assert.Len(t, []rune(qboText(strings.Repeat("é", 300))), qboMaxText)
}

func TestQBOFormatter_EncodesWindows1252(t *testing.T) {
	req := twoTransactionRequest()
	req.Transactions[1].Counterparty = "Univé Verzekeringen €"
	req.Transactions[1].Description = "Premie 日本"

	res, err := NewQBOFormatter(testOptions()).Format(req)
	require.NoError(t, err)

	assert.Contains(t, string(res.Bytes), "ENCODING:USASCII\nCHARSET:1252\n")
	assert.True(t, bytes.Contains(res.Bytes, []byte("<NAME>Univ\xe9 Verzekeringen \x80</NAME>")))
	assert.True(t, bytes.Contains(res.Bytes, []byte("<MEMO>Premie ??</MEMO>")))
	assert.False(t, utf8.Valid(res.Bytes))
}

func TestIntuBID(t *testing.T) {
	assert.Equal(t, "3711", intuBID("Rabobank"))
	assert.Equal(t, "3712", intuBID("ABN AMRO"))
	assert.Equal(t, defaultIntuBID, intuBID("Bank"))
}

func TestFormatters_Deterministic(t *testing.T) {
	registry := NewRegistry(testOptions())
	for _, format := range registry.Formats() {
		t.Run(format, func(t *testing.T) {
			first, err := registry.Export(format, twoTransactionRequest())
			require.NoError(t, err)
			second, err := registry.Export(format, twoTransactionRequest())
			require.NoError(t, err)
			if format == FormatXLSX {
				assert.Equal(t, sheetRows(t, first, SheetTransactions), sheetRows(t, second, SheetTransactions))
				assert.Equal(t, sheetRows(t, first, SheetBTW), sheetRows(t, second, SheetBTW))
				return
			}
			assert.Equal(t, first, second)
		})
	}
}

// sheetRows reads a sheet of an XLSX result with unformatted cell values.
func sheetRows(t *testing.T, res *Result, sheet string) [][]string {
	t.Helper()
	wb, err := excelize.OpenReader(bytes.NewReader(res.Bytes))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestXLSXFormatter(t *testing.T) {
	req := twoTransactionRequest()
	req.Transactions = append(req.Transactions, tx("t3", "15-01-2024", "Albert Heijn", "-10.90"))
	req.User.CompanyName = "Jansen Advies"
	req.Classifications = map[string]models.Classification{
		"t2": {CategoryName: "Telefoon", GrootboekCode: "4300", BTWRate: models.BTW21, Method: models.MethodRuleMatch},
		"t3": {CategoryName: "Boodschappen", GrootboekCode: "4610", BTWRate: models.BTW9, Method: models.MethodRuleMatch},
	}

	res, err := NewXLSXFormatter(testOptions()).Format(req)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", res.ContentType)
	assert.Equal(t, "BSC-PRO-ING-Export.xlsx", res.Filename)
	assert.Empty(t, res.Warnings)

	rows := sheetRows(t, res, SheetTransactions)
	assert.Equal(t, []string{"Jansen Advies - Bankafschrift Export"}, rows[0])
	assert.Equal(t, []string{"Gegenereerd door BSCPro.nl | 05-03-2024"}, rows[1])
	assert.Equal(t, []string{"Datum", "Omschrijving", "Categorie", "BTW %", "Bedrag", "Saldo", "IBAN"}, rows[3])
	assert.Equal(t, []string{"10-01-2024", "Factuur 2024-001", models.UnclassifiedCategory, "Onbekend", "100", "100", "NL20INGB0001234567"}, rows[4])
	assert.Equal(t, []string{"12-01-2024", "KPN abonnement", "Telefoon", "21%", "-30", "70", "NL20INGB0001234567"}, rows[5])
	assert.Equal(t, []string{"15-01-2024", "Albert Heijn", "Boodschappen", "9%", "-10.9", "59.1", "NL20INGB0001234567"}, rows[6])
	assert.Equal(t, []string{"", "", "", "Totaal Inkomsten:", "100"}, rows[8])
	assert.Equal(t, []string{"", "", "", "Totaal Uitgaven:", "-40.9"}, rows[9])
	assert.Equal(t, []string{"", "", "", "Saldo:", "59.1"}, rows[10])

	btw := sheetRows(t, res, SheetBTW)
	require.Len(t, btw, 4)
	assert.Equal(t, []string{"Categorie", "Aantal", "Subtotaal ex BTW", "BTW Bedrag", "Totaal incl BTW", "BTW %"}, btw[0])
	assert.Equal(t, []string{"Standaard BTW (21%)", "1", "24.79", "5.21", "30", "21%"}, btw[1])
	assert.Equal(t, []string{"Lage BTW (9%)", "1", "10", "0.9", "10.9", "9%"}, btw[2])
	assert.Equal(t, []string{"Onbekend tarief", "1", "100", "0", "100", "Onbekend"}, btw[3])
}

func TestXLSXFormatter_OpeningBalanceAndNoIBAN(t *testing.T) {
	opts := testOptions()
	opening := decimal.RequireFromString("1000.00")
	opts.OpeningBalance = &opening
	req := twoTransactionRequest()
	req.IBAN = ""

	res, err := NewXLSXFormatter(opts).Format(req)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)

	rows := sheetRows(t, res, SheetTransactions)
	assert.Equal(t, []string{"10-01-2024", "Factuur 2024-001", models.UnclassifiedCategory, "Onbekend", "100", "1100"}, rows[4])
	assert.Equal(t, []string{"12-01-2024", "KPN abonnement", models.UnclassifiedCategory, "Onbekend", "-30", "1070"}, rows[5])
}

func TestRegistry_ExcelAlias(t *testing.T) {
	f, err := NewRegistry(testOptions()).Get("Excel")
	require.NoError(t, err)
	assert.IsType(t, &XLSXFormatter{}, f)
}

func TestFormatters_InputErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   models.ExportRequest
		opts  Options
		field string
	}{
		{
			name:  "empty transaction list",
			req:   models.ExportRequest{IBAN: "NL20INGB0001234567"},
			opts:  testOptions(),
			field: "transactions",
		},
		{
			name:  "iban required",
			req:   models.ExportRequest{Transactions: albertHeijnRequest().Transactions},
			opts:  Options{Clock: FixedClock(exportTime), RequireIBAN: true},
			field: "rekeningnummer",
		},
		{
			name: "every row malformed",
			req: models.ExportRequest{
				Transactions: []models.Transaction{tx("x", "31-02-2024", "bad", "1")},
				IBAN:         "NL20INGB0001234567",
			},
			opts:  testOptions(),
			field: "transactions",
		},
	}

	for _, tt := range tests {
		for _, format := range []string{FormatCSV, FormatMT940, FormatCAMT, FormatQBO, FormatXLSX} {
			t.Run(tt.name+"/"+format, func(t *testing.T) {
				res, err := NewRegistry(tt.opts).Export(format, tt.req)
				require.Error(t, err)
				assert.Nil(t, res)

				var inputErr *pipelineerror.InputError
				require.True(t, errors.As(err, &inputErr))
				assert.Equal(t, tt.field, inputErr.Field)
			})
		}
	}
}

func TestFormatters_SkipMalformedRows(t *testing.T) {
	req := twoTransactionRequest()
	req.Transactions = append(req.Transactions, tx("bad", "2024/13/45", "Kapot", "999"))

	for _, format := range []string{FormatCSV, FormatMT940, FormatCAMT, FormatQBO, FormatXLSX} {
		t.Run(format, func(t *testing.T) {
			res, err := NewRegistry(testOptions()).Export(format, req)
			require.NoError(t, err)
			assert.NotContains(t, string(res.Bytes), "Kapot")
			require.Len(t, res.Warnings, 1)
			assert.Contains(t, res.Warnings[0], "row 3")
		})
	}
}

func TestFormatters_EmptyDateUsesExportDate(t *testing.T) {
	req := albertHeijnRequest()
	req.Transactions[0].Date = ""

	res, err := NewMT940Formatter(testOptions()).Format(req)
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes), ":61:240305D85,43NTRF0001")
}

func TestFormatters_PlaceholderIBAN(t *testing.T) {
	req := albertHeijnRequest()
	req.IBAN = "  "

	res, err := NewMT940Formatter(testOptions()).Format(req)
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes), ":25:"+DefaultPlaceholderIBAN+"\r\n")

	opts := testOptions()
	opts.PlaceholderIBAN = "NL00TEST0000000001"
	res, err = NewCAMTFormatter(opts).Format(req)
	require.NoError(t, err)
	assert.Contains(t, string(res.Bytes), "<IBAN>NL00TEST0000000001</IBAN>")
	assert.Equal(t, "NL00TEST0000000001_2024-03-05.xml", res.Filename)
}

func TestFormatters_BankNameIsSanitized(t *testing.T) {
	req := albertHeijnRequest()
	req.Bank = "../ING/bank"

	res, err := NewMT940Formatter(testOptions()).Format(req)
	require.NoError(t, err)
	assert.Equal(t, "BSC-PRO-..INGbank-MT940.sta", res.Filename)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
