// Package report builds the category and BTW summaries shown next to an
// export, and renders them as JSON or CSV.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/models"
)

// CategoryLine aggregates the transactions of one category. Total is the sum
// of absolute amounts.
type CategoryLine struct {
	Category      string          `json:"category"`
	GrootboekCode string          `json:"grootboek_code"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
	Percentage    decimal.Decimal `json:"percentage"`
}

// BTWLine aggregates the transactions of one BTW rate. Amounts are gross,
// so BTWAmount is the tax contained in Total.
type BTWLine struct {
	Rate      models.BTWRate  `json:"rate"`
	Label     string          `json:"label"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	BTWAmount decimal.Decimal `json:"btw_amount"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// Summary is the report for one batch of classified transactions.
type Summary struct {
	TransactionCount int             `json:"transaction_count"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	Categories       []CategoryLine  `json:"categories"`
	BTW              []BTWLine       `json:"btw"`
}

// rateOrder lists rates in the order they appear on a BTW return.
var rateOrder = []models.BTWRate{models.BTW21, models.BTW9, models.BTW0, models.BTWExempt, models.BTWUnknown}

// Build summarizes txs using their classifications. Transactions without a
// classification are reported under the unclassified category with an
// unknown rate.
func Build(txs []models.Transaction, classifications map[string]models.Classification) Summary {
	req := models.ExportRequest{Classifications: classifications}
	s := Summary{
		TransactionCount: len(txs),
		Income:           decimal.Zero,
		Expenses:         decimal.Zero,
		Net:              decimal.Zero,
	}

	categories := make(map[string]*CategoryLine)
	rates := make(map[models.BTWRate]*BTWLine)

	for _, tx := range txs {
		amount := tx.Amount.Round(2)
		s.Net = s.Net.Add(amount)
		if tx.IsCredit() {
			s.Income = s.Income.Add(amount)
		} else {
			s.Expenses = s.Expenses.Add(amount.Abs())
		}

		c, ok := req.ClassificationFor(tx)
		if !ok {
			c = models.Classification{CategoryName: models.UnclassifiedCategory, BTWRate: models.BTWUnknown}
		}
		name := c.CategoryName
		if name == "" {
			name = models.UnclassifiedCategory
		}

		line, found := categories[name]
		if !found {
			line = &CategoryLine{Category: name, GrootboekCode: c.GrootboekCode, Total: decimal.Zero}
			categories[name] = line
		}
		line.Count++
		line.Total = line.Total.Add(amount.Abs())

		btw, found := rates[c.BTWRate]
		if !found {
			btw = &BTWLine{Rate: c.BTWRate, Label: models.FormatBTW(c.BTWRate), Total: decimal.Zero, BTWAmount: decimal.Zero, NetAmount: decimal.Zero}
			rates[c.BTWRate] = btw
		}
		btw.Count++
		btw.Total = btw.Total.Add(amount.Abs())
		percent := decimal.Zero
		if p, ok := c.BTWRate.Percent(); ok {
			percent = decimal.NewFromInt(int64(p))
		}
		btw.BTWAmount = btw.BTWAmount.Add(currencyutils.CalculateTaxAmount(amount.Abs(), percent))
		btw.NetAmount = btw.NetAmount.Add(currencyutils.AmountExcludingTax(amount.Abs(), percent))
	}

	hundred := decimal.NewFromInt(100)
	for _, line := range categories {
		line.Percentage = decimal.NewFromInt(int64(line.Count)).Mul(hundred).
			Div(decimal.NewFromInt(int64(len(txs)))).Round(1)
		s.Categories = append(s.Categories, *line)
	}
	sort.SliceStable(s.Categories, func(i, j int) bool {
		if !s.Categories[i].Total.Equal(s.Categories[j].Total) {
			return s.Categories[i].Total.GreaterThan(s.Categories[j].Total)
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})

	for _, rate := range rateOrder {
		if line, ok := rates[rate]; ok {
			s.BTW = append(s.BTW, *line)
		}
	}
	return s
}
