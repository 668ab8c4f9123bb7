// Package batch merges the statements of several input files into one
// transaction list per bank account.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bscpro/bank-export/internal/common"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipeline"
)

// UnknownAccount groups the files in which no IBAN could be found.
const UnknownAccount = "onbekend"

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format(dateutils.LayoutISO),
		dr.End.Format(dateutils.LayoutISO))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End

	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// Source is one extracted input file.
type Source struct {
	Path  string
	Batch *pipeline.Batch
}

// Group is the merged content of every source that belongs to one account.
type Group struct {
	IBAN      string
	Bank      string
	Files     []string
	DateRange DateRange
	Batch     *pipeline.Batch
}

// Aggregator groups extracted sources by account.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Aggregator{logger: logger.WithField(logging.FieldComponent, "batch")}
}

// GroupByAccount merges sources with the same IBAN. The IBAN comes from
// the extracted batch, then from the file name. Groups are returned sorted
// by IBAN; files keep their input order inside a group.
func (a *Aggregator) GroupByAccount(sources []Source) []Group {
	byAccount := make(map[string]*Group)
	var order []string

	for _, src := range sources {
		if src.Batch == nil {
			continue
		}
		iban := accountOf(src)
		g, ok := byAccount[iban]
		if !ok {
			g = &Group{IBAN: iban, Batch: &pipeline.Batch{User: src.Batch.User}}
			if iban != UnknownAccount {
				g.Batch.IBAN = iban
			}
			byAccount[iban] = g
			order = append(order, iban)
		}
		if g.Bank == "" {
			g.Bank = src.Batch.Bank
			g.Batch.Bank = src.Batch.Bank
		}
		g.Files = append(g.Files, src.Path)
		g.Batch.Transactions = append(g.Batch.Transactions, src.Batch.Transactions...)
		for _, w := range src.Batch.Warnings {
			g.Batch.Warnings = append(g.Batch.Warnings, filepath.Base(src.Path)+": "+w)
		}
	}

	sort.Strings(order)
	groups := make([]Group, 0, len(order))
	for _, iban := range order {
		g := byAccount[iban]
		g.Batch.Transactions = a.dropRepeatedIDs(g.Batch.Transactions, iban)
		sortChronologically(g.Batch.Transactions)
		a.detectAndLogDuplicates(g.Batch.Transactions, iban)
		g.DateRange = DateRangeOf(g.Batch.Transactions)

		a.logger.Info("Aggregated transactions for account",
			logging.Field{Key: "account", Value: iban},
			logging.Field{Key: logging.FieldCount, Value: len(g.Batch.Transactions)},
			logging.Field{Key: "source_files", Value: len(g.Files)})
		groups = append(groups, *g)
	}
	return groups
}

func accountOf(src Source) string {
	if src.Batch.IBAN != "" {
		return strings.ToUpper(src.Batch.IBAN)
	}
	if id := common.FindIBANInFilename(src.Path); id.IBAN != "" {
		return id.IBAN
	}
	return UnknownAccount
}

// dropRepeatedIDs removes rows whose id was already seen. Overlapping
// downloads of the same statement produce identical rows with identical ids.
func (a *Aggregator) dropRepeatedIDs(txs []models.Transaction, iban string) []models.Transaction {
	seen := make(map[string]bool, len(txs))
	out := txs[:0]
	dropped := 0
	for _, tx := range txs {
		if tx.ID != "" && seen[tx.ID] {
			dropped++
			continue
		}
		seen[tx.ID] = true
		out = append(out, tx)
	}
	if dropped > 0 {
		a.logger.Warn("Dropped repeated transactions",
			logging.Field{Key: "account", Value: iban},
			logging.Field{Key: logging.FieldSkipped, Value: dropped})
	}
	return out
}

// sortChronologically orders by booking date; rows on the same day keep
// their input order.
func sortChronologically(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		di, _ := dateutils.ParseStatementDate(txs[i].Date)
		dj, _ := dateutils.ParseStatementDate(txs[j].Date)
		return di.Before(dj)
	})
}

// detectAndLogDuplicates logs rows that look alike (same date, amount and
// counterparty) but have different ids. They are kept.
func (a *Aggregator) detectAndLogDuplicates(txs []models.Transaction, iban string) int {
	duplicates := 0
	for i := 0; i < len(txs)-1; i++ {
		for j := i + 1; j < len(txs) && txs[j].Date == txs[i].Date; j++ {
			if arePotentialDuplicates(txs[i], txs[j]) {
				duplicates++
				a.logger.Warn("Potential duplicate transaction",
					logging.Field{Key: "account", Value: iban},
					logging.Field{Key: "date", Value: txs[i].Date},
					logging.Field{Key: "amount", Value: txs[i].Amount.String()})
				break
			}
		}
	}
	return duplicates
}

func arePotentialDuplicates(tx1, tx2 models.Transaction) bool {
	if tx1.Date != tx2.Date || !tx1.Amount.Equal(tx2.Amount) {
		return false
	}
	party1 := strings.ToLower(strings.TrimSpace(tx1.Counterparty + " " + tx1.Description))
	party2 := strings.ToLower(strings.TrimSpace(tx2.Counterparty + " " + tx2.Description))
	return party1 == party2
}

// OutputFilename names the consolidated export of a group:
// {iban}_{start}_{end}.{ext}, or {iban}.{ext} without a date range.
func OutputFilename(g Group, ext string) string {
	name := common.SanitizeFilename(g.IBAN)
	if r := g.DateRange.String(); r != "" {
		name += "_" + r
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

// DateRangeOf returns the first and last booking date of txs.
func DateRangeOf(txs []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		d, err := dateutils.ParseStatementDate(tx.Date)
		if err != nil {
			continue
		}
		dr = dr.Merge(DateRange{Start: d, End: d})
	}
	return dr
}
