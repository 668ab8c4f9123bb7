// Package camtparser reads CAMT.053 bank-to-customer statements, either
// produced by this tool or downloaded from a bank, into raw transactions.
package camtparser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"

	"bscpro/bank-export/internal/currencyutils"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
	"bscpro/bank-export/internal/xmlutils"
)

// Balance is a statement balance such as OPBD or CLBD.
type Balance struct {
	Type   string
	Amount decimal.Decimal
	Date   string
}

// Statement is the content of one Stmt element.
type Statement struct {
	ID           string
	IBAN         string
	Currency     string
	Owner        string
	Balances     []Balance
	Transactions []models.RawTransaction
}

// Balance returns the balance of the given type code, if present.
func (s *Statement) Balance(code string) (decimal.Decimal, bool) {
	for _, b := range s.Balances {
		if b.Type == code {
			return b.Amount, true
		}
	}
	return decimal.Zero, false
}

// Parser reads CAMT.053 documents.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a Parser.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Parser{logger: logger.WithField(logging.FieldComponent, "camtparser")}
}

// ValidateFormat reports whether r holds a CAMT.053 statement. A document
// that is not XML at all is reported as invalid, not as an error.
func (p *Parser) ValidateFormat(r io.Reader) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("error reading document: %w", err)
	}
	root, err := xmlutils.Load(bytes.NewReader(data))
	if err != nil {
		p.logger.Debug("Document is not valid XML")
		return false, nil
	}
	return xmlutils.StatementID.Exists(root), nil
}

// ParseFile reads the statements of the CAMT.053 file at path.
func (p *Parser) ParseFile(path string) ([]Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &pipelineerror.ExtractionError{Source: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.WithError(err).Warn("Failed to close file",
				logging.Field{Key: logging.FieldInputFile, Value: path})
		}
	}()

	p.logger.Info("Parsing CAMT.053 file", logging.Field{Key: logging.FieldInputFile, Value: path})
	return p.Parse(f)
}

// Parse reads every statement of a CAMT.053 document. Entries that are not
// booked are skipped.
func (p *Parser) Parse(r io.Reader) ([]Statement, error) {
	root, err := xmlutils.Load(r)
	if err != nil {
		return nil, &pipelineerror.InputError{Field: "document", Reason: err.Error()}
	}
	if !xmlutils.StatementID.Exists(root) {
		return nil, &pipelineerror.InputError{Field: "document", Reason: "not a CAMT.053 statement"}
	}

	var statements []Statement
	for _, stmt := range xmlutils.Nodes(root, xmlutils.Statements) {
		s, err := p.parseStatement(stmt)
		if err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}

	p.logger.Debug("Parsed CAMT.053 document",
		logging.Field{Key: logging.FieldCount, Value: len(statements)})
	return statements, nil
}

// ParseTransactions flattens the transactions of every statement in r.
func (p *Parser) ParseTransactions(r io.Reader) ([]models.RawTransaction, error) {
	statements, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	var raws []models.RawTransaction
	for _, s := range statements {
		raws = append(raws, s.Transactions...)
	}
	return raws, nil
}

func (p *Parser) parseStatement(stmt *xmlpath.Node) (Statement, error) {
	s := Statement{
		ID:       xmlutils.First(stmt, xmlutils.StatementOwnID),
		IBAN:     xmlutils.First(stmt, xmlutils.AccountIBAN, xmlutils.AccountOther),
		Currency: xmlutils.First(stmt, xmlutils.AccountCcy),
		Owner:    xmlutils.First(stmt, xmlutils.AccountOwner),
	}

	for _, bal := range xmlutils.Nodes(stmt, xmlutils.Balances) {
		amount, err := signedAmount(bal)
		if err != nil {
			return Statement{}, &pipelineerror.InputError{Field: "Bal/Amt", Reason: err.Error()}
		}
		s.Balances = append(s.Balances, Balance{
			Type:   xmlutils.First(bal, xmlutils.BalanceType),
			Amount: amount,
			Date:   xmlutils.First(bal, xmlutils.BalanceDate),
		})
	}

	for i, ntry := range xmlutils.Nodes(stmt, xmlutils.Entries) {
		status := xmlutils.First(ntry, xmlutils.EntryStatusCode, xmlutils.EntryStatus)
		if status != "" && !strings.EqualFold(status, models.StatusBooked) {
			p.logger.Debug("Skipping entry that is not booked",
				logging.Field{Key: logging.FieldRow, Value: i + 1},
				logging.Field{Key: logging.FieldReason, Value: status})
			continue
		}
		raw, err := p.parseEntry(ntry)
		if err != nil {
			return Statement{}, &pipelineerror.FormatError{Row: i + 1, Field: "Ntry", Err: err}
		}
		s.Transactions = append(s.Transactions, raw)
	}
	return s, nil
}

func (p *Parser) parseEntry(ntry *xmlpath.Node) (models.RawTransaction, error) {
	amount, err := signedAmount(ntry)
	if err != nil {
		return models.RawTransaction{}, err
	}

	date := xmlutils.First(ntry, xmlutils.EntryBookingDate, xmlutils.EntryValueDate)
	if date == "" {
		if dtTm := xmlutils.First(ntry, xmlutils.EntryBookingDtTm); len(dtTm) >= 10 {
			date = dtTm[:10]
		}
	}

	description := strings.Join(xmlutils.Values(ntry, xmlutils.EntryRemittance), " ")
	if description == "" {
		description = xmlutils.First(ntry, xmlutils.EntryAddtlTxInfo, xmlutils.EntryAddtlInfo)
	}

	var counterparty string
	if amount.IsNegative() {
		counterparty = xmlutils.First(ntry, xmlutils.EntryCreditorName, xmlutils.EntryCreditorPty)
	} else {
		counterparty = xmlutils.First(ntry, xmlutils.EntryDebtorName, xmlutils.EntryDebtorPty)
	}

	id := xmlutils.First(ntry, xmlutils.EntryReference)
	if id == "" {
		if e2e := xmlutils.First(ntry, xmlutils.EntryEndToEndID); !strings.EqualFold(e2e, "NOTPROVIDED") {
			id = e2e
		}
	}

	return models.RawTransaction{
		ID:           id,
		Date:         date,
		Description:  description,
		Amount:       models.RawAmount(currencyutils.FormatDot(amount)),
		Counterparty: counterparty,
	}, nil
}

// signedAmount reads Amt and applies CdtDbtInd of node.
func signedAmount(node *xmlpath.Node) (decimal.Decimal, error) {
	raw := xmlutils.First(node, xmlutils.BalanceAmount)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if strings.EqualFold(xmlutils.First(node, xmlutils.CreditDebitInd), models.IndicatorDebit) {
		amount = amount.Abs().Neg()
	}
	return amount, nil
}
