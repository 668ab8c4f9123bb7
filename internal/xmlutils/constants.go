package xmlutils

import "gopkg.in/xmlpath.v2"

// Compiled XPath expressions for CAMT.053. Entry-level paths are relative to
// an Ntry node, balance paths to a Bal node.
var (
	StatementID    = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Id")
	Statements     = xmlpath.MustCompile("//BkToCstmrStmt/Stmt")
	StatementOwnID = xmlpath.MustCompile("Id")
	AccountIBAN    = xmlpath.MustCompile("Acct/Id/IBAN")
	AccountOther   = xmlpath.MustCompile("Acct/Id/Othr/Id")
	AccountCcy     = xmlpath.MustCompile("Acct/Ccy")
	AccountOwner   = xmlpath.MustCompile("Acct/Ownr/Nm")
	Balances       = xmlpath.MustCompile("Bal")
	Entries        = xmlpath.MustCompile("Ntry")
	BalanceType    = xmlpath.MustCompile("Tp/CdOrPrtry/Cd")
	BalanceAmount  = xmlpath.MustCompile("Amt")
	BalanceDate    = xmlpath.MustCompile("Dt/Dt")
	CreditDebitInd = xmlpath.MustCompile("CdtDbtInd")

	EntryAmount       = xmlpath.MustCompile("Amt")
	EntryCurrency     = xmlpath.MustCompile("Amt/@Ccy")
	EntryBookingDate  = xmlpath.MustCompile("BookgDt/Dt")
	EntryBookingDtTm  = xmlpath.MustCompile("BookgDt/DtTm")
	EntryValueDate    = xmlpath.MustCompile("ValDt/Dt")
	EntryStatus       = xmlpath.MustCompile("Sts")
	EntryStatusCode   = xmlpath.MustCompile("Sts/Cd")
	EntryReference    = xmlpath.MustCompile("AcctSvcrRef")
	EntryAddtlInfo    = xmlpath.MustCompile("AddtlNtryInf")
	EntryEndToEndID   = xmlpath.MustCompile("NtryDtls/TxDtls/Refs/EndToEndId")
	EntryRemittance   = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	EntryAddtlTxInfo  = xmlpath.MustCompile("NtryDtls/TxDtls/AddtlTxInf")
	EntryCreditorName = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Cdtr/Nm")
	EntryCreditorPty  = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Cdtr/Pty/Nm")
	EntryDebtorName   = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	EntryDebtorPty    = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Pty/Nm")
)
