package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscpro/bank-export/internal/camtparser"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
	"bscpro/bank-export/internal/textextract"
)

const camtDocument = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <GrpHdr><MsgId>1</MsgId><CreDtTm>2024-01-31T10:00:00</CreDtTm></GrpHdr>
    <Stmt>
      <Id>STMT1</Id>
      <Acct><Id><IBAN>NL20INGB0001234567</IBAN></Id></Acct>
      <Ntry>
        <Amt Ccy="EUR">85.43</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
        <Sts>BOOK</Sts>
        <BookgDt><Dt>2024-01-15</Dt></BookgDt>
        <NtryDtls><TxDtls><RmtInf><Ustrd>Albert Heijn</Ustrd></RmtInf></TxDtls></NtryDtls>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestLoader(pdf *textextract.MockExtractor) *Loader {
	return NewLoader(textextract.NewFileReader(pdf), camtparser.NewParser(nil), nil)
}

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		wantRows  int
		wantText  string
		wantIBAN  string
		wantBank  string
		pdfOutput string
	}{
		{
			name:     "json array",
			file:     "rows.json",
			content:  `[{"date":"15-01-2024","description":"AH","amount":-85.43}]`,
			wantRows: 1,
		},
		{
			name:     "json request body",
			file:     "request.json",
			content:  `{"transactions":[{"date":"15-01-2024","description":"AH","amount":"-85,43"}],"bank":"ING","rekeningnummer":"NL20INGB0001234567"}`,
			wantRows: 1,
			wantIBAN: "NL20INGB0001234567",
			wantBank: "ING",
		},
		{
			name:     "csv",
			file:     "rows.csv",
			content:  "date;description;amount\n15-01-2024;AH;-85,43\n16-01-2024;KPN;-30,00\n",
			wantRows: 2,
		},
		{
			name:     "camt",
			file:     "statement.xml",
			content:  camtDocument,
			wantRows: 1,
			wantIBAN: "NL20INGB0001234567",
		},
		{
			name:     "plain text",
			file:     "statement.txt",
			content:  "15-01-2024 AH -85,43\n",
			wantText: "15-01-2024 AH -85,43\n",
		},
		{
			name:      "pdf",
			file:      "statement.pdf",
			content:   "%PDF-1.4",
			pdfOutput: "pdf text",
			wantText:  "pdf text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			in, err := newTestLoader(&textextract.MockExtractor{Text: tt.pdfOutput}).Load(context.Background(), path)
			require.NoError(t, err)

			assert.Len(t, in.Transactions, tt.wantRows)
			assert.Equal(t, tt.wantText, in.Text)
			assert.Equal(t, tt.wantIBAN, in.IBAN)
			assert.Equal(t, tt.wantBank, in.Bank)
		})
	}
}

func TestLoader_CAMTDates(t *testing.T) {
	path := writeFile(t, "statement.xml", camtDocument)
	in, err := newTestLoader(&textextract.MockExtractor{}).Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, in.Transactions, 1)
	tx, err := in.Transactions[0].Normalize(1)
	require.NoError(t, err)
	assert.Equal(t, "15-01-2024", tx.Date)
	assert.Equal(t, "-85.43", tx.Amount.StringFixed(2))
}

func TestLoader_Errors(t *testing.T) {
	loader := newTestLoader(&textextract.MockExtractor{})

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	var extractionErr *pipelineerror.ExtractionError
	assert.True(t, errors.As(err, &extractionErr))

	_, err = loader.Load(context.Background(), writeFile(t, "bad.json", "{not json"))
	var inputErr *pipelineerror.InputError
	assert.True(t, errors.As(err, &inputErr))

	_, err = loader.Load(context.Background(), writeFile(t, "bad.xml", "<Document/>"))
	assert.True(t, errors.As(err, &inputErr))
}

func TestLoader_JSONNumberAmounts(t *testing.T) {
	path := writeFile(t, "rows.json", `[{"date":"15-01-2024","description":"AH","amount":-85.40},
		{"date":"16-01-2024","description":"NS","amount":-30.000}]`)
	in, err := newTestLoader(&textextract.MockExtractor{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, models.RawAmount("-85.40"), in.Transactions[0].Amount)
	assert.Equal(t, models.RawAmount("-30.00"), in.Transactions[1].Amount)
}
