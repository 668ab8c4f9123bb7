package extractor

import "strings"

// Bank identifies the issuer of a statement.
type Bank string

// Banks recognised by DetectBank. BankGeneric doubles as the default bank
// name in export filenames.
const (
	BankING      Bank = "ING"
	BankRabobank Bank = "Rabobank"
	BankABNAMRO  Bank = "ABN AMRO"
	BankBunq     Bank = "bunq"
	BankGeneric  Bank = "Bank"
)

var bankMarkers = []struct {
	bank    Bank
	markers []string
}{
	{BankING, []string{"ing bank", "ing.nl", "inggnl2a"}},
	{BankRabobank, []string{"rabobank", "rabonl2u"}},
	{BankABNAMRO, []string{"abn amro", "abnanl2a"}},
	{BankBunq, []string{"bunq"}},
}

// DetectBank guesses the bank from statement text.
func DetectBank(text string) Bank {
	lower := strings.ToLower(text)
	for _, b := range bankMarkers {
		for _, m := range b.markers {
			if strings.Contains(lower, m) {
				return b.bank
			}
		}
	}
	return BankGeneric
}
