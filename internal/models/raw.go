package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/pipelineerror"

	"github.com/shopspring/decimal"
)

// RawAmount holds an amount as it was supplied by the caller. JSON numbers and
// JSON strings are both accepted.
//
// A string keeps its text and is read later with the locale rules of
// currencyutils.ParseAmount. A JSON number is always dot-decimal, so it is
// decoded exactly and stored rounded to cents ("-30.000" becomes "-30.00"),
// which ParseAmount cannot misread as thousands grouping.
type RawAmount string

// UnmarshalJSON keeps the content of a string and canonicalizes a number.
func (a *RawAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string: %w", err)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return fmt.Errorf("amount %s: %w", n, err)
	}
	*a = RawAmount(d.StringFixed(2))
	return nil
}

// RawTransaction is the transaction shape delivered by upload and
// extraction layers, before validation.
type RawTransaction struct {
	ID           string    `json:"id,omitempty" csv:"id"`
	Date         string    `json:"date" csv:"date"`
	Description  string    `json:"description" csv:"description"`
	Amount       RawAmount `json:"amount" csv:"amount"`
	Counterparty string    `json:"counterparty,omitempty" csv:"counterparty"`
}

// Normalize validates the raw row and converts it into a Transaction. row is
// the 1-based position used in error messages. An empty date is allowed and
// left empty so that exporters can substitute the export date.
func (r RawTransaction) Normalize(row int) (Transaction, error) {
	amount, err := currencyutils.ParseAmount(string(r.Amount))
	if err != nil {
		return Transaction{}, &pipelineerror.FormatError{Row: row, Field: "amount", Value: string(r.Amount), Err: err}
	}

	date := strings.TrimSpace(r.Date)
	if date != "" {
		date, err = dateutils.NormalizeStatementDate(date)
		if err != nil {
			return Transaction{}, &pipelineerror.FormatError{Row: row, Field: "date", Value: r.Date, Err: err}
		}
	}

	description := strings.TrimSpace(r.Description)
	if description == "" && strings.TrimSpace(r.Counterparty) == "" {
		return Transaction{}, &pipelineerror.FormatError{Row: row, Field: "description", Value: "", Err: errors.New("description and counterparty are both empty")}
	}

	return Transaction{
		ID:           strings.TrimSpace(r.ID),
		Date:         date,
		Description:  description,
		Amount:       amount.Round(2),
		Counterparty: strings.TrimSpace(r.Counterparty),
	}, nil
}
