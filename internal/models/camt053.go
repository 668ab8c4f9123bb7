package models

import "encoding/xml"

// CAMT053Namespace is the camt.053 schema version written by the exporter.
const CAMT053Namespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"

// Document is the root of a CAMT.053 bank-to-customer statement.
type Document struct {
	XMLName       xml.Name      `xml:"Document"`
	Xmlns         string        `xml:"xmlns,attr"`
	BkToCstmrStmt BkToCstmrStmt `xml:"BkToCstmrStmt"`
}

// BkToCstmrStmt holds the group header and the statement.
type BkToCstmrStmt struct {
	GrpHdr GrpHdr `xml:"GrpHdr"`
	Stmt   Stmt   `xml:"Stmt"`
}

// GrpHdr is the message group header.
type GrpHdr struct {
	MsgId   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
}

// Stmt is a single account statement. Balances precede entries, as the
// schema requires.
type Stmt struct {
	Id      string `xml:"Id"`
	CreDtTm string `xml:"CreDtTm"`
	Acct    Acct   `xml:"Acct"`
	Bal     []Bal  `xml:"Bal"`
	Ntry    []Ntry `xml:"Ntry"`
}

// Acct identifies the statement account.
type Acct struct {
	Id   AcctId `xml:"Id"`
	Ccy  string `xml:"Ccy"`
	Ownr Ownr   `xml:"Ownr"`
}

// AcctId carries the IBAN.
type AcctId struct {
	IBAN string `xml:"IBAN"`
}

// Ownr is the account holder.
type Ownr struct {
	Nm string `xml:"Nm"`
}

// Bal is an opening (OPBD) or closing (CLBD) balance.
type Bal struct {
	Tp        BalTp  `xml:"Tp"`
	Amt       Amt    `xml:"Amt"`
	CdtDbtInd string `xml:"CdtDbtInd"`
	Dt        DtWrap `xml:"Dt"`
}

// BalTp wraps the balance type code.
type BalTp struct {
	CdOrPrtry CdOrPrtry `xml:"CdOrPrtry"`
}

// CdOrPrtry holds a code.
type CdOrPrtry struct {
	Cd string `xml:"Cd"`
}

// Amt is an amount with its currency attribute.
type Amt struct {
	Value string `xml:",chardata"`
	Ccy   string `xml:"Ccy,attr"`
}

// DtWrap wraps an ISO date.
type DtWrap struct {
	Dt string `xml:"Dt"`
}

// Ntry is one booked statement entry.
type Ntry struct {
	Amt       Amt      `xml:"Amt"`
	CdtDbtInd string   `xml:"CdtDbtInd"`
	Sts       string   `xml:"Sts"`
	BookgDt   DtWrap   `xml:"BookgDt"`
	ValDt     DtWrap   `xml:"ValDt"`
	NtryDtls  NtryDtls `xml:"NtryDtls"`
}

// NtryDtls holds the transaction details of an entry.
type NtryDtls struct {
	TxDtls []TxDtls `xml:"TxDtls"`
}

// TxDtls carries the related party and the remittance information.
type TxDtls struct {
	RltdPties *RltdPties `xml:"RltdPties,omitempty"`
	RmtInf    RmtInf     `xml:"RmtInf"`
}

// RltdPties names the other party of an entry: the creditor of a debit or
// the debtor of a credit.
type RltdPties struct {
	Dbtr *Party `xml:"Dbtr,omitempty"`
	Cdtr *Party `xml:"Cdtr,omitempty"`
}

// Party is a named transaction party.
type Party struct {
	Nm string `xml:"Nm"`
}

// RmtInf is unstructured remittance information.
type RmtInf struct {
	Ustrd []string `xml:"Ustrd"`
}

// CAMT053 codes.
const (
	BalanceOpening  = "OPBD"
	BalanceClosing  = "CLBD"
	IndicatorCredit = "CRDT"
	IndicatorDebit  = "DBIT"
	StatusBooked    = "BOOK"
)
