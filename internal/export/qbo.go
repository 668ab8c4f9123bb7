package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/dateutils"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/textutils"
)

const qboMaxText = 250

// intuBIDs are the QuickBooks bank identifiers used for Dutch banks. Keys
// are matched as lowercase substrings of the bank name, in order.
var intuBIDs = []struct {
	bank string
	bid  string
}{
	{"ing", "3710"},
	{"rabobank", "3711"},
	{"abn amro", "3712"},
	{"sns", "3713"},
	{"knab", "3714"},
	{"bunq", "3715"},
	{"triodos", "3716"},
	{"asn", "3717"},
	{"regiobank", "3718"},
}

const defaultIntuBID = "3000"

var qboEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// QBOFormatter writes an OFX 1.02 (SGML) statement for QuickBooks Online.
type QBOFormatter struct {
	opts Options
}

// NewQBOFormatter creates a QBOFormatter.
func NewQBOFormatter(opts Options) *QBOFormatter {
	return &QBOFormatter{opts: opts.withDefaults()}
}

// Format implements Formatter. The ledger balance is the sum of the
// exported amounts, plus the opening balance when one is configured.
func (f *QBOFormatter) Format(req models.ExportRequest) (*Result, error) {
	b, err := prepare(req, f.opts)
	if err != nil {
		return nil, err
	}

	closing := b.total
	if f.opts.OpeningBalance != nil {
		closing = f.opts.OpeningBalance.Round(2).Add(b.total)
	}

	today := b.now.Format(dateutils.LayoutCompact)
	start, end := b.rows[0].date, b.rows[0].date
	for _, r := range b.rows[1:] {
		if r.date.Before(start) {
			start = r.date
		}
		if r.date.After(end) {
			end = r.date
		}
	}

	w := &qboWriter{}
	for _, h := range []string{
		"OFXHEADER:100", "DATA:OFXSGML", "VERSION:102", "SECURITY:NONE", "ENCODING:USASCII",
		"CHARSET:1252", "COMPRESSION:NONE", "OLDFILEUID:NONE", "NEWFILEUID:NONE", "",
	} {
		w.line(0, h)
	}

	w.open(0, "OFX")
	w.open(1, "SIGNONMSGSRSV1")
	w.open(2, "SONRS")
	w.status(3)
	w.elem(3, "DTSERVER", today)
	w.elem(3, "LANGUAGE", "ENG")
	w.elem(3, "INTU.BID", intuBID(b.bank))
	w.close(2, "SONRS")
	w.close(1, "SIGNONMSGSRSV1")

	w.open(1, "BANKMSGSRSV1")
	w.open(2, "STMTTRNRS")
	w.elem(3, "TRNUID", "0")
	w.status(3)
	w.open(3, "STMTRS")
	w.elem(4, "CURDEF", Currency)
	w.open(4, "BANKACCTFROM")
	w.elem(5, "BANKID", qboText(b.bank))
	w.elem(5, "ACCTID", qboText(b.iban))
	w.elem(5, "ACCTTYPE", "CHECKING")
	w.close(4, "BANKACCTFROM")

	w.open(4, "BANKTRANLIST")
	w.elem(5, "DTSTART", start.Format(dateutils.LayoutCompact))
	w.elem(5, "DTEND", end.Format(dateutils.LayoutCompact))
	for i, r := range b.rows {
		f.writeTransaction(w, i, r)
	}
	w.close(4, "BANKTRANLIST")

	w.open(4, "LEDGERBAL")
	w.elem(5, "BALAMT", currencyutils.FormatDot(closing))
	w.elem(5, "DTASOF", today)
	w.close(4, "LEDGERBAL")
	w.close(3, "STMTRS")
	w.close(2, "STMTTRNRS")
	w.close(1, "BANKMSGSRSV1")
	w.close(0, "OFX")

	return &Result{
		Bytes:       encodeWindows1252(w.sb.String()),
		ContentType: "application/vnd.intu.qbo",
		Filename:    fmt.Sprintf("BSC-PRO-%s-QBO.qbo", strings.Join(strings.Fields(b.bank), "_")),
		Warnings:    b.warnings,
	}, nil
}

func (f *QBOFormatter) writeTransaction(w *qboWriter, index int, r row) {
	trnType := "CREDIT"
	if !r.tx.IsCredit() {
		trnType = "DEBIT"
	}

	name := qboText(r.tx.Counterparty)
	if name == "" {
		if words := strings.Fields(r.tx.Description); len(words) > 0 {
			name = qboText(words[0])
		}
	}
	if name == "" {
		name = "Unknown"
	}
	memo := qboText(r.tx.Description)

	w.open(5, "STMTTRN")
	w.elem(6, "TRNTYPE", trnType)
	w.elem(6, "DTPOSTED", r.date.Format(dateutils.LayoutCompact))
	w.elem(6, "TRNAMT", currencyutils.FormatDot(r.tx.Amount))
	w.elem(6, "FITID", fitID(index, r))
	w.elem(6, "NAME", name)
	if memo != "" && memo != name {
		w.elem(6, "MEMO", memo)
	}
	if r.classified {
		if p, ok := r.classification.BTWRate.Percent(); ok {
			w.elem(6, "CATEGORY", fmt.Sprintf("BTW %d%%", p))
		}
	}
	w.close(5, "STMTTRN")
}

// fitID is unique within a file: date, position and amount in cents.
func fitID(index int, r row) string {
	cents := strings.Replace(currencyutils.FormatDot(r.tx.Amount.Abs()), ".", "", 1)
	return fmt.Sprintf("%s-%d-%s", r.date.Format(dateutils.LayoutCompact), index, cents)
}

func intuBID(bank string) string {
	lower := strings.ToLower(bank)
	for _, b := range intuBIDs {
		if strings.Contains(lower, b.bank) {
			return b.bid
		}
	}
	return defaultIntuBID
}

func qboText(s string) string {
	s = textutils.CollapseWhitespace(textutils.StripControl(s))
	return qboEscaper.Replace(textutils.Truncate(s, qboMaxText))
}

// encodeWindows1252 encodes s in the code page the header declares. Runes
// outside it become '?'.
func encodeWindows1252(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

type qboWriter struct {
	sb strings.Builder
}

func (w *qboWriter) line(depth int, s string) {
	w.sb.WriteString(strings.Repeat("  ", depth))
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *qboWriter) open(depth int, tag string)  { w.line(depth, "<"+tag+">") }
func (w *qboWriter) close(depth int, tag string) { w.line(depth, "</"+tag+">") }

func (w *qboWriter) elem(depth int, tag, value string) {
	w.line(depth, "<"+tag+">"+value+"</"+tag+">")
}

func (w *qboWriter) status(depth int) {
	w.open(depth, "STATUS")
	w.elem(depth+1, "CODE", "0")
	w.elem(depth+1, "SEVERITY", "INFO")
	w.close(depth, "STATUS")
}
