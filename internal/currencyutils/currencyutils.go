// Package currencyutils provides the amount parsing and rendering rules shared
// by the extractor and the exporters.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyNoise = regexp.MustCompile(`[€$£\s\x{00A0}']|EUR`)

// ParseAmount parses a human-formatted amount into a decimal.
//
// Exactly one decimal convention is applied:
//   - if both '.' and ',' occur, the rightmost one is the decimal separator
//     and the other is thousands grouping ("1.234,56" and "1,234.56" both
//     yield 1234.56);
//   - if only one kind occurs once and is followed by one or two digits, it
//     is the decimal separator ("85,43", "85.4");
//   - otherwise every separator is thousands grouping ("1.234", "1,234,567").
//
// A leading or trailing '-' or '+' sets the sign.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := currencyNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		negative, s = true, s[:len(s)-1]
	case strings.HasSuffix(s, "+"):
		s = s[:len(s)-1]
	}

	normalized, err := Standardize(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", raw, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// Standardize rewrites an unsigned amount so that decimal.NewFromString can
// read it, using the convention documented on ParseAmount.
func Standardize(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty amount")
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return "", fmt.Errorf("unexpected character %q", r)
		}
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastDot >= 0 && lastComma >= 0 {
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1), nil
		}
		return strings.ReplaceAll(s, ",", ""), nil
	}

	sep := ""
	switch {
	case lastComma >= 0:
		sep = ","
	case lastDot >= 0:
		sep = "."
	default:
		return s, nil
	}

	if strings.Count(s, sep) == 1 {
		fraction := s[strings.LastIndex(s, sep)+1:]
		if len(fraction) == 1 || len(fraction) == 2 {
			return strings.Replace(s, sep, ".", 1), nil
		}
	}
	return strings.ReplaceAll(s, sep, ""), nil
}

// FormatDot renders amount with exactly two decimals and a dot separator,
// keeping the sign ("-85.43").
func FormatDot(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatComma renders the absolute amount with exactly two decimals and a
// comma separator ("85,43"), as used by MT940.
func FormatComma(amount decimal.Decimal) string {
	return strings.Replace(amount.Abs().StringFixed(2), ".", ",", 1)
}

// CalculateTaxAmount returns the tax contained in a gross amount for the
// given rate: gross * rate / (100 + rate), rounded to cents.
func CalculateTaxAmount(gross decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	return gross.Mul(ratePercent).Div(hundred.Add(ratePercent)).Round(2)
}

// AmountExcludingTax returns the net part of a gross amount.
func AmountExcludingTax(gross decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	return gross.Sub(CalculateTaxAmount(gross, ratePercent))
}
