package extractor

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
)

func TestExtract_Lines(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		date        string
		description string
		amount      string
	}{
		{"comma decimal", "15-01-2024 Albert Heijn 1234 45,67", "15-01-2024", "Albert Heijn 1234", "45.67"},
		{"dutch thousands", "15-01-2024 Huur kantoor 1.234,56", "15-01-2024", "Huur kantoor", "1234.56"},
		{"english thousands", "15-01-2024 Huur kantoor 1,234.56", "15-01-2024", "Huur kantoor", "1234.56"},
		{"slash date", "03/02/2024 Shell Station -65,00", "03-02-2024", "Shell Station", "-65.00"},
		{"leading plus", "01-01-2025  Salary Payment      +2,500.00", "01-01-2025", "Salary Payment", "2500.00"},
		{"af marker", "05-01-2024 KPN B.V. 35,00 Af", "05-01-2024", "KPN B.V.", "-35.00"},
		{"bij marker", "05-01-2024 Klant X 1.000,00 Bij", "05-01-2024", "Klant X", "1000.00"},
		{"debit marker", "05-01-2024 Vodafone 20,00 D", "05-01-2024", "Vodafone", "-20.00"},
		{"credit marker overrides sign", "05-01-2024 Refund -20,00 CR", "05-01-2024", "Refund", "20.00"},
		{"trailing minus", "05-01-2024 Spotify 9,99-", "05-01-2024", "Spotify", "-9.99"},
		{"euro sign", "05-01-2024 Bol.com € 19,95", "05-01-2024", "Bol.com", "19.95"},
		{"iso date", "2024-01-15 Rabobank kosten 3,50", "15-01-2024", "Rabobank kosten", "3.50"},
		{"number in description", "15-01-2024 Factuur 2024 12,50", "15-01-2024", "Factuur 2024", "12.50"},
		{"thousands only", "15-01-2024 Laptop 1.234", "15-01-2024", "Laptop", "1234.00"},
	}

	e := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := e.Extract(tt.line)
			require.Len(t, txs, 1)
			assert.Equal(t, tt.date, txs[0].Date)
			assert.Equal(t, tt.description, txs[0].Description)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(txs[0].Amount), "got %s", txs[0].Amount)
			assert.NotEmpty(t, txs[0].ID)
		})
	}
}

func TestExtract_SkipsNonTransactionLines(t *testing.T) {
	text := `ING Bank Statement - Januari 2024
Rekeningnummer NL20INGB0001234567

Datum      Omschrijving         Bedrag
15-01-2024 Albert Heijn 1234 45,67
31-02-2024 Impossible date 10,00
Pagina 1 van 2
16-01-2024 Shell Station 60,00`

	txs := New(nil).Extract(text)

	require.Len(t, txs, 2)
	assert.Equal(t, "Albert Heijn 1234", txs[0].Description)
	assert.Equal(t, "Shell Station", txs[1].Description)
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, New(nil).Extract(""))
	assert.Empty(t, New(nil).Extract("geen transacties\n\n"))
}

func TestExtract_Deterministic(t *testing.T) {
	text := "15-01-2024 Albert Heijn 45,67\r\n15-01-2024 Albert Heijn 45,67\n"
	e := New(nil)

	first := e.Extract(text)
	second := e.Extract(text)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first[0].ID, first[1].ID, "identical lines on different rows get different ids")
}

func TestExtract_CounterpartyLines(t *testing.T) {
	text := `15-01-2024 iDEAL betaling 45,67 Af
  Naam: Coolblue B.V.   IBAN: NL12RABO0123456789
16-01-2024 Naam: Eneco Omschrijving: termijn 120,00 Af
17-01-2024 Overboeking 10,00 Bij`

	txs := New(nil).Extract(text)

	require.Len(t, txs, 3)
	assert.Equal(t, "Coolblue B.V.", txs[0].Counterparty)
	assert.Equal(t, "Eneco", txs[1].Counterparty)
	assert.Equal(t, "", txs[2].Counterparty)
}

func TestDetectBank(t *testing.T) {
	tests := map[string]Bank{
		"ING Bank N.V. afschrift": BankING,
		"www.ing.nl":              BankING,
		"Rabobank Utrecht":        BankRabobank,
		"ABN AMRO Bank":           BankABNAMRO,
		"bunq B.V.":               BankBunq,
		"Triodos afschrift":       BankGeneric,
		"":                        BankGeneric,
	}
	for text, want := range tests {
		assert.Equal(t, want, DetectBank(text), text)
	}
}

func TestNormalize(t *testing.T) {
	logger := logging.NewMockLogger()
	raws := []models.RawTransaction{
		{ID: "a", Date: "15-01-2024", Description: "Albert Heijn", Amount: "-45,67"},
		{Date: "15/01/2024", Description: "Zonder id", Amount: "10.00"},
		{ID: "bad-date", Date: "32-01-2024", Description: "x", Amount: "1"},
		{ID: "bad-amount", Date: "15-01-2024", Description: "x", Amount: "abc"},
		{ID: "no-date", Description: "Geen datum", Amount: "5"},
	}

	txs, warnings := New(logger).Normalize(raws)

	require.Len(t, txs, 3)
	assert.Equal(t, "a", txs[0].ID)
	assert.True(t, decimal.RequireFromString("-45.67").Equal(txs[0].Amount))
	assert.NotEmpty(t, txs[1].ID)
	assert.Equal(t, "15-01-2024", txs[1].Date)
	assert.Equal(t, "", txs[2].Date)

	require.Len(t, warnings, 2)
	var formatErr *pipelineerror.FormatError
	require.True(t, errors.As(warnings[0], &formatErr))
	assert.Equal(t, 3, formatErr.Row)
	assert.Equal(t, "date", formatErr.Field)
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 2)

	again, _ := New(nil).Normalize(raws)
	assert.Equal(t, txs[1].ID, again[1].ID)
}
