// Package export renders classified transactions as files that Dutch
// accounting packages import: semicolon CSV, MT940, CAMT.053, QBO and an
// Excel workbook.
//
// Formatters are pure: they never touch disk or network, and the only
// ambient input is the injected Clock. A formatter either returns the whole
// file or an error, never a partial byte stream.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"bscpro/bank-export/internal/models"
)

// Supported export formats.
const (
	FormatCSV   = "csv"
	FormatMT940 = "mt940"
	FormatCAMT  = "camt"
	FormatQBO   = "qbo"
	FormatXLSX  = "xlsx"
)

// Defaults used when the request or the options leave a value empty.
const (
	DefaultPlaceholderIBAN = "NL00XXXX0000000000"
	DefaultOwnerName       = "Bedrijf"
	DefaultBankName        = "Bank"
	DefaultDescription     = "Transactie"
	Currency               = models.Currency
)

// Formatter renders an export request into a downloadable file.
type Formatter interface {
	Format(req models.ExportRequest) (*Result, error)
}

// Result is a complete export file.
type Result struct {
	Bytes       []byte
	ContentType string
	Filename    string

	// Warnings lists rows that were skipped and substitutions that were
	// made, in input order.
	Warnings []string
}

// Clock supplies the export time. Filenames, message ids and statement
// dates derive from it; transaction data never does.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// WallClock reports the local wall-clock time.
var WallClock Clock = ClockFunc(time.Now)

// Options configures every formatter.
type Options struct {
	Clock Clock

	// RequireIBAN turns a missing account number into an InputError
	// instead of substituting PlaceholderIBAN.
	RequireIBAN     bool
	PlaceholderIBAN string

	// OwnerName is the CAMT account holder used when the request carries
	// no company name.
	OwnerName string

	// DefaultBank names the bank in filenames when the request has none.
	DefaultBank string

	// OpeningBalance, when set, replaces the opening balance approximations
	// of MT940 (zero) and CAMT (max(0, sum)). Closing balances then become
	// opening balance plus the sum of the exported amounts.
	OpeningBalance *decimal.Decimal
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = WallClock
	}
	if o.PlaceholderIBAN == "" {
		o.PlaceholderIBAN = DefaultPlaceholderIBAN
	}
	if o.OwnerName == "" {
		o.OwnerName = DefaultOwnerName
	}
	if o.DefaultBank == "" {
		o.DefaultBank = DefaultBankName
	}
	return o
}
