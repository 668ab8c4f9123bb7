// Package validation checks user-supplied values before they reach the
// pipeline.
package validation

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"bscpro/bank-export/internal/textutils"
)

// ValidateIBAN checks the structure and ISO 13616 mod-97 checksum of iban.
// Whitespace is ignored and letters are case-insensitive.
func ValidateIBAN(iban string) error {
	compact := strings.ToUpper(textutils.RemoveSpaces(iban))
	if len(compact) < 15 || len(compact) > 34 {
		return fmt.Errorf("IBAN must be between 15 and 34 characters, got %d", len(compact))
	}
	for i, r := range compact {
		isLetter := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if i < 2 && !isLetter {
			return fmt.Errorf("IBAN must start with a country code")
		}
		if i >= 2 && i < 4 && !isDigit {
			return fmt.Errorf("IBAN check digits must be numeric")
		}
		if !isLetter && !isDigit {
			return fmt.Errorf("IBAN contains invalid character %q", r)
		}
	}

	rearranged := compact[4:] + compact[:4]
	var digits strings.Builder
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			fmt.Fprintf(&digits, "%d", r-'A'+10)
		} else {
			digits.WriteRune(r)
		}
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return fmt.Errorf("IBAN could not be converted to a number")
	}
	if new(big.Int).Mod(n, big.NewInt(97)).Int64() != 1 {
		return fmt.Errorf("IBAN checksum mismatch")
	}
	return nil
}

// IsValidReportFormat checks if the given summary report format is supported.
func IsValidReportFormat(format string) error {
	switch format {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are 'json', 'csv'", format)
	}
}

// IsReadableFile checks that path exists and is a regular file.
func IsReadableFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}
