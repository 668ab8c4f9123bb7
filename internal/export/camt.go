package export

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/textutils"
)

// CAMTFormatter writes a camt.053.001.02 bank-to-customer statement.
type CAMTFormatter struct {
	opts Options
}

// NewCAMTFormatter creates a CAMTFormatter.
func NewCAMTFormatter(opts Options) *CAMTFormatter {
	return &CAMTFormatter{opts: opts.withDefaults()}
}

// Format implements Formatter. All text is XML-escaped by encoding/xml;
// characters that XML 1.0 cannot represent are removed.
//
// Without an explicit opening balance OPBD is max(0, sum of amounts) and
// CLBD is the sum itself.
func (f *CAMTFormatter) Format(req models.ExportRequest) (*Result, error) {
	b, err := prepare(req, f.opts)
	if err != nil {
		return nil, err
	}

	opening := decimal.Max(decimal.Zero, b.total)
	closing := b.total
	if f.opts.OpeningBalance != nil {
		opening = f.opts.OpeningBalance.Round(2)
		closing = opening.Add(b.total)
	}

	created := b.now.Format(time.RFC3339)
	today := b.now.Format(dateutils.LayoutISO)

	stmt := models.Stmt{
		Id:      "STMT" + b.now.Format(dateutils.LayoutCompact),
		CreDtTm: created,
		Acct: models.Acct{
			Id:   models.AcctId{IBAN: xmlText(b.iban)},
			Ccy:  Currency,
			Ownr: models.Ownr{Nm: xmlText(b.owner)},
		},
		Bal: []models.Bal{
			camtBalance(models.BalanceOpening, opening, today),
			camtBalance(models.BalanceClosing, closing, today),
		},
	}

	for _, r := range b.rows {
		date := r.date.Format(dateutils.LayoutISO)
		description := xmlText(r.tx.Description)
		if strings.TrimSpace(description) == "" {
			description = DefaultDescription
		}

		tx := models.TxDtls{RmtInf: models.RmtInf{Ustrd: []string{description}}}
		if name := strings.TrimSpace(xmlText(r.tx.Counterparty)); name != "" {
			if !r.tx.IsCredit() {
				tx.RltdPties = &models.RltdPties{Cdtr: &models.Party{Nm: name}}
			} else {
				tx.RltdPties = &models.RltdPties{Dbtr: &models.Party{Nm: name}}
			}
		}

		stmt.Ntry = append(stmt.Ntry, models.Ntry{
			Amt:       models.Amt{Value: currencyutils.FormatDot(r.tx.Amount.Abs()), Ccy: Currency},
			CdtDbtInd: creditDebit(r.tx.Amount),
			Sts:       models.StatusBooked,
			BookgDt:   models.DtWrap{Dt: date},
			ValDt:     models.DtWrap{Dt: date},
			NtryDtls:  models.NtryDtls{TxDtls: []models.TxDtls{tx}},
		})
	}

	doc := models.Document{
		Xmlns: models.CAMT053Namespace,
		BkToCstmrStmt: models.BkToCstmrStmt{
			GrpHdr: models.GrpHdr{
				MsgId:   fmt.Sprintf("BSCPRO%d", b.now.UnixMilli()),
				CreDtTm: created,
			},
			Stmt: stmt,
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode CAMT.053 document: %w", err)
	}

	content := make([]byte, 0, len(xml.Header)+len(body)+1)
	content = append(content, xml.Header...)
	content = append(content, body...)
	content = append(content, '\n')

	return &Result{
		Bytes:       content,
		ContentType: "application/xml",
		Filename:    fmt.Sprintf("%s_%s.xml", textutils.StripPathChars(b.iban), today),
		Warnings:    b.warnings,
	}, nil
}

func camtBalance(code string, amount decimal.Decimal, date string) models.Bal {
	return models.Bal{
		Tp:        models.BalTp{CdOrPrtry: models.CdOrPrtry{Cd: code}},
		Amt:       models.Amt{Value: currencyutils.FormatDot(amount.Abs()), Ccy: Currency},
		CdtDbtInd: creditDebit(amount),
		Dt:        models.DtWrap{Dt: date},
	}
}

// xmlText drops characters XML 1.0 cannot carry and flattens line breaks.
func xmlText(s string) string {
	return textutils.CollapseWhitespace(textutils.StripControl(s))
}
