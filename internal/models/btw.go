package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BTWRate is a Dutch VAT rate classification.
type BTWRate int

// The zero value is BTWUnknown so that a missing classification never
// renders as a real rate.
const (
	BTWUnknown BTWRate = iota
	BTWExempt
	BTW0
	BTW9
	BTW21
)

// Percent returns the numeric rate and false for exempt or unknown.
func (r BTWRate) Percent() (int, bool) {
	switch r {
	case BTW0:
		return 0, true
	case BTW9:
		return 9, true
	case BTW21:
		return 21, true
	}
	return 0, false
}

// String renders the rate for CSV output: "21%", "9%", "0%", "Vrijgesteld"
// for exempt and "Onbekend" when no rate is known.
func (r BTWRate) String() string {
	return FormatBTW(r)
}

// FormatBTW renders a rate so that exempt is visibly distinct from 0%.
func FormatBTW(r BTWRate) string {
	switch r {
	case BTWExempt:
		return "Vrijgesteld"
	case BTWUnknown:
		return "Onbekend"
	}
	p, _ := r.Percent()
	return fmt.Sprintf("%d%%", p)
}

// ParseBTW parses the textual rate stored on categorization rules.
func ParseBTW(s string) (BTWRate, error) {
	switch strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "%")) {
	case "0":
		return BTW0, nil
	case "9":
		return BTW9, nil
	case "21":
		return BTW21, nil
	case "vrijgesteld", "exempt", "null", "geen":
		return BTWExempt, nil
	}
	return BTWUnknown, fmt.Errorf("unsupported BTW percentage %q", s)
}

// MarshalJSON encodes numeric rates as numbers and exempt/unknown as null.
func (r BTWRate) MarshalJSON() ([]byte, error) {
	if p, ok := r.Percent(); ok {
		return json.Marshal(p)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null (exempt).
func (r *BTWRate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		*r = BTWExempt
		return nil
	}
	parsed, err := ParseBTW(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
