package common

import (
	"path/filepath"
	"regexp"
	"strings"

	"bscpro/bank-export/internal/validation"
)

// AccountIdentifier is an account number found in an input, with the place
// it was found.
type AccountIdentifier struct {
	IBAN   string
	Source string // "content", "filename" or "" when nothing was found
}

// ibanCandidate matches IBANs written compact or in groups of four.
var ibanCandidate = regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?[A-Z0-9]{1,3})?\b`)

// CAMT filename pattern used by several Dutch banks:
// CAMT.053_{iban}_{start}_{end}_{sequence}.xml
var camtFilenamePattern = regexp.MustCompile(`(?i)^CAMT\.?053_([A-Z]{2}\d{2}[A-Z0-9]+)_`)

// FindIBAN returns the first IBAN in text with a valid checksum.
func FindIBAN(text string) AccountIdentifier {
	for _, candidate := range ibanCandidate.FindAllString(strings.ToUpper(text), -1) {
		compact := strings.ReplaceAll(candidate, " ", "")
		if validation.ValidateIBAN(compact) == nil {
			return AccountIdentifier{IBAN: compact, Source: "content"}
		}
	}
	return AccountIdentifier{}
}

// FindIBANInFilename reads the IBAN from bank download names such as
// CAMT.053_NL20INGB0001234567_2024-01-01_2024-01-31_1.xml.
func FindIBANInFilename(filename string) AccountIdentifier {
	matches := camtFilenamePattern.FindStringSubmatch(filepath.Base(filename))
	if len(matches) < 2 {
		return AccountIdentifier{}
	}
	iban := strings.ToUpper(matches[1])
	if validation.ValidateIBAN(iban) != nil {
		return AccountIdentifier{}
	}
	return AccountIdentifier{IBAN: iban, Source: "filename"}
}

// SanitizeFilename makes a suggested download name safe to create inside an
// output directory. Path separators and traversal sequences are removed.
func SanitizeFilename(name string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")

	var result strings.Builder
	for _, r := range sanitized {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' || r == '.' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	sanitized = result.String()

	for strings.Contains(sanitized, "..") {
		sanitized = strings.ReplaceAll(sanitized, "..", "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}

	sanitized = strings.Trim(sanitized, "_.")
	if sanitized == "" {
		sanitized = "export"
	}
	return sanitized
}
