// Package models provides the data structures used throughout the application.
package models

import "github.com/shopspring/decimal"

// Currency is the only account currency supported by the exporters.
const Currency = "EUR"

// Transaction is a single normalized bank statement line.
//
// Date uses the DD-MM-YYYY convention. Amount is signed: positive is money
// in (credit), negative is money out (debit).
type Transaction struct {
	ID           string          `json:"id,omitempty" yaml:"id,omitempty"`
	Date         string          `json:"date" yaml:"date"`
	Description  string          `json:"description" yaml:"description"`
	Amount       decimal.Decimal `json:"amount" yaml:"amount"`
	Counterparty string          `json:"counterparty,omitempty" yaml:"counterparty,omitempty"`
}

// IsCredit reports whether the transaction is money in. Zero counts as credit.
func (t Transaction) IsCredit() bool {
	return !t.Amount.IsNegative()
}

// MatchText returns the text categorization rules are evaluated against.
func (t Transaction) MatchText() []string {
	if t.Counterparty == "" {
		return []string{t.Description}
	}
	return []string{t.Description, t.Counterparty}
}
