// Package dateutils provides the date layouts used by bank statements and the
// interchange formats produced from them.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts used throughout the application.
const (
	LayoutStatement = "02-01-2006"
	LayoutISO       = "2006-01-02"
	LayoutCompact   = "20060102"
	LayoutShort     = "060102"
	LayoutTimestamp = "20060102150405"
)

var inputLayouts = []string{
	LayoutStatement,
	"02/01/2006",
	"02.01.2006",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	LayoutISO,
}

var dutchMonths = [...]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// ParseStatementDate parses a calendar date written day-first (DD-MM-YYYY,
// DD/MM/YYYY, DD.MM.YYYY) or as ISO YYYY-MM-DD. Impossible dates such as
// 31-02-2024 are rejected.
func ParseStatementDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %q", s)
}

// NormalizeStatementDate returns s rewritten as DD-MM-YYYY.
func NormalizeStatementDate(s string) (string, error) {
	t, err := ParseStatementDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(LayoutStatement), nil
}

// DutchMonth returns the lowercase Dutch name of m ("januari").
func DutchMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return dutchMonths[m-1]
}
