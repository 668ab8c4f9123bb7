package models

import (
	"encoding/json"
	"errors"
	"testing"

	"bscpro/bank-export/internal/pipelineerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_IsCredit(t *testing.T) {
	assert.True(t, Transaction{Amount: decimal.NewFromInt(10)}.IsCredit())
	assert.True(t, Transaction{Amount: decimal.Zero}.IsCredit())
	assert.False(t, Transaction{Amount: decimal.RequireFromString("-0.01")}.IsCredit())
}

func TestTransaction_MatchText(t *testing.T) {
	assert.Equal(t, []string{"Huur"}, Transaction{Description: "Huur"}.MatchText())
	assert.Equal(t, []string{"Huur", "Vastgoed BV"}, Transaction{Description: "Huur", Counterparty: "Vastgoed BV"}.MatchText())
}

func TestRawTransaction_UnmarshalAmount(t *testing.T) {
	var rows []RawTransaction
	input := `[{"date":"15-01-2024","description":"a","amount":-85.43},
	           {"date":"15-01-2024","description":"b","amount":"1.234,56"},
	           {"date":"15-01-2024","description":"c","amount":null}]`
	require.NoError(t, json.Unmarshal([]byte(input), &rows))

	assert.Equal(t, RawAmount("-85.43"), rows[0].Amount)
	assert.Equal(t, RawAmount("1.234,56"), rows[1].Amount)
	assert.Equal(t, RawAmount(""), rows[2].Amount)
}

func TestRawTransaction_JSONNumbersAreDotDecimal(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"85.43000000000001", "85.43"},
		{"1234.567", "1234.57"},
		{"0.125", "0.13"},
		{"-30.000", "-30.00"},
		{"1.234", "1.23"},
		{"1e3", "1000.00"},
		{"-2500", "-2500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			var raw RawTransaction
			input := `{"date":"15-01-2024","description":"x","amount":` + tt.number + `}`
			require.NoError(t, json.Unmarshal([]byte(input), &raw))

			tx, err := raw.Normalize(1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.Amount.StringFixed(2))
		})
	}
}

func TestRawTransaction_StringAmountsKeepLocaleRules(t *testing.T) {
	var raw RawTransaction
	require.NoError(t, json.Unmarshal([]byte(`{"date":"15-01-2024","description":"x","amount":"1.234"}`), &raw))

	tx, err := raw.Normalize(1)
	require.NoError(t, err)
	assert.Equal(t, "1234.00", tx.Amount.StringFixed(2))
}

func TestRawTransaction_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawTransaction
		wantField string
		want      Transaction
	}{
		{
			name: "number amount",
			raw:  RawTransaction{ID: " t1 ", Date: "15-01-2024", Description: " Albert Heijn B.V. ", Amount: "-85.43"},
			want: Transaction{ID: "t1", Date: "15-01-2024", Description: "Albert Heijn B.V.", Amount: decimal.RequireFromString("-85.43")},
		},
		{
			name: "iso date normalized",
			raw:  RawTransaction{Date: "2024-01-15", Description: "x", Amount: "10"},
			want: Transaction{Date: "15-01-2024", Description: "x", Amount: decimal.NewFromInt(10)},
		},
		{
			name: "empty date kept",
			raw:  RawTransaction{Description: "x", Amount: "1,50"},
			want: Transaction{Description: "x", Amount: decimal.RequireFromString("1.5")},
		},
		{
			name:      "non numeric amount",
			raw:       RawTransaction{Date: "15-01-2024", Description: "x", Amount: "abc"},
			wantField: "amount",
		},
		{
			name:      "impossible date",
			raw:       RawTransaction{Date: "32-01-2024", Description: "x", Amount: "1"},
			wantField: "date",
		},
		{
			name:      "nothing to describe",
			raw:       RawTransaction{Date: "15-01-2024", Amount: "1"},
			wantField: "description",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.raw.Normalize(4)
			if tt.wantField != "" {
				var formatErr *pipelineerror.FormatError
				require.True(t, errors.As(err, &formatErr))
				assert.Equal(t, tt.wantField, formatErr.Field)
				assert.Equal(t, 4, formatErr.Row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.Equal(t, tt.want.Date, got.Date)
			assert.Equal(t, tt.want.Description, got.Description)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount %s", got.Amount)
		})
	}
}

func TestExportRequest_ClassificationFor(t *testing.T) {
	req := ExportRequest{Classifications: map[string]Classification{"t1": {CategoryName: "Huur"}}}

	c, ok := req.ClassificationFor(Transaction{ID: "t1"})
	assert.True(t, ok)
	assert.Equal(t, "Huur", c.CategoryName)

	_, ok = req.ClassificationFor(Transaction{})
	assert.False(t, ok)

	_, ok = ExportRequest{}.ClassificationFor(Transaction{ID: "t1"})
	assert.False(t, ok)
}
