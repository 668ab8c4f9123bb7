// Package btw detects the Dutch VAT (BTW) rate that most likely applies to
// a bank transaction, using local keyword heuristics only.
package btw

import (
	"fmt"
	"strings"

	"bscpro/bank-export/internal/models"
)

// Source tells which heuristic produced a Result.
type Source string

// Detection sources, in evaluation order.
const (
	SourceCategory            Source = "category"
	SourceMerchant            Source = "merchant"
	SourceDescriptionMerchant Source = "description_merchant"
	SourceKeyword             Source = "keyword"
	SourceDefault             Source = "default"
)

// Confidence scores per source, on a 0-100 scale.
const (
	ConfidenceCategory            = 90
	ConfidenceMerchant            = 95
	ConfidenceDescriptionMerchant = 85
	ConfidenceKeyword             = 75
	ConfidenceDefault             = 50
)

// Result is the outcome of a detection.
type Result struct {
	Rate        models.BTWRate `json:"rate"`
	Confidence  int            `json:"confidence"`
	Source      Source         `json:"source"`
	Category    string         `json:"category,omitempty"`
	Explanation string         `json:"explanation"`
}

type merchantEntry struct {
	phrase   phrase
	category string
	rate     models.BTWRate
}

type keywordEntry struct {
	phrase phrase
	group  *keywordGroup
}

// Detector holds the compiled merchant and keyword tables. It is immutable
// after construction and safe for concurrent use.
type Detector struct {
	merchants []merchantEntry
	keywords  []keywordEntry
}

// NewDetector compiles the built-in tables.
func NewDetector() *Detector {
	d := &Detector{}
	for _, g := range merchantGroups {
		for _, name := range g.names {
			d.merchants = append(d.merchants, merchantEntry{phrase: compilePhrase(name), category: g.category, rate: g.rate})
		}
	}
	for i := range keywordGroups {
		g := &keywordGroups[i]
		for _, kw := range g.keywords {
			d.keywords = append(d.keywords, keywordEntry{phrase: compilePhrase(kw), group: g})
		}
	}
	return d
}

// Detect returns a rate for the transaction. It never fails: when nothing
// matches it returns the standard 21% rate.
func (d *Detector) Detect(counterparty, description, categoryHint string) Result {
	if rate, ok := categoryRates[strings.ToLower(strings.TrimSpace(categoryHint))]; ok {
		return Result{
			Rate:        rate,
			Confidence:  ConfidenceCategory,
			Source:      SourceCategory,
			Category:    categoryHint,
			Explanation: fmt.Sprintf("Categorie %s: %s", categoryHint, models.FormatBTW(rate)),
		}
	}

	if m, ok := d.matchMerchant(counterparty); ok {
		return Result{
			Rate:        m.rate,
			Confidence:  ConfidenceMerchant,
			Source:      SourceMerchant,
			Category:    m.category,
			Explanation: fmt.Sprintf("%s is een %s (%s)", strings.TrimSpace(counterparty), m.category, models.FormatBTW(m.rate)),
		}
	}

	if m, ok := d.matchMerchant(description); ok {
		return Result{
			Rate:        m.rate,
			Confidence:  ConfidenceDescriptionMerchant,
			Source:      SourceDescriptionMerchant,
			Category:    m.category,
			Explanation: fmt.Sprintf("Omschrijving noemt %s (%s)", m.phrase.text, models.FormatBTW(m.rate)),
		}
	}

	if k, ok := d.matchKeyword(description); ok {
		return Result{
			Rate:        k.group.rate,
			Confidence:  ConfidenceKeyword,
			Source:      SourceKeyword,
			Category:    k.group.category,
			Explanation: k.group.explanation,
		}
	}

	return Result{
		Rate:        models.BTW21,
		Confidence:  ConfidenceDefault,
		Source:      SourceDefault,
		Explanation: "Standaardtarief (geen specifieke categorie herkend)",
	}
}

// matchMerchant returns the longest merchant name found in text; ties go to
// the entry listed first.
func (d *Detector) matchMerchant(text string) (merchantEntry, bool) {
	var best merchantEntry
	found := false
	if strings.TrimSpace(text) == "" {
		return best, false
	}
	for _, m := range d.merchants {
		if (!found || m.phrase.length() > best.phrase.length()) && m.phrase.in(text) {
			best, found = m, true
		}
	}
	return best, found
}

func (d *Detector) matchKeyword(text string) (keywordEntry, bool) {
	var best keywordEntry
	found := false
	if strings.TrimSpace(text) == "" {
		return best, false
	}
	for _, k := range d.keywords {
		if (!found || k.phrase.length() > best.phrase.length()) && k.phrase.in(text) {
			best, found = k, true
		}
	}
	return best, found
}
