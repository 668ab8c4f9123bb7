package store

import "bscpro/bank-export/internal/models"

// DefaultRules returns the built-in Dutch rule set offered to new users. The
// rules carry no id or user; SeedDefaults assigns both. Entries without a
// priority get models.DefaultRulePriority.
func DefaultRules() []models.Rule {
	rules := []models.Rule{
		{Keyword: "albert heijn", GrootboekCode: "4610", BTWPercentage: "9", CategoryName: "Boodschappen"},
		{Keyword: "jumbo", GrootboekCode: "4610", BTWPercentage: "9", CategoryName: "Boodschappen"},
		{Keyword: "lidl", GrootboekCode: "4610", BTWPercentage: "9", CategoryName: "Boodschappen"},
		{Keyword: "thuisbezorgd", GrootboekCode: "4620", BTWPercentage: "9", CategoryName: "Horeca"},
		{Keyword: "ns groep", GrootboekCode: "4330", BTWPercentage: "9", CategoryName: "Openbaar vervoer"},
		{Keyword: "shell", GrootboekCode: "4320", BTWPercentage: "21", CategoryName: "Brandstof"},
		{Keyword: "esso", GrootboekCode: "4320", BTWPercentage: "21", CategoryName: "Brandstof"},
		{Keyword: "tango", GrootboekCode: "4320", BTWPercentage: "21", CategoryName: "Brandstof"},
		{Keyword: "kpn", GrootboekCode: "4520", BTWPercentage: "21", CategoryName: "Telecom"},
		{Keyword: "vodafone", GrootboekCode: "4520", BTWPercentage: "21", CategoryName: "Telecom"},
		{Keyword: "odido", GrootboekCode: "4520", BTWPercentage: "21", CategoryName: "Telecom"},
		{Keyword: "microsoft", GrootboekCode: "4540", BTWPercentage: "21", CategoryName: "Software / SaaS"},
		{Keyword: "adobe", GrootboekCode: "4540", BTWPercentage: "21", CategoryName: "Software / SaaS"},
		{Keyword: "google", GrootboekCode: "4540", BTWPercentage: "21", CategoryName: "Software / SaaS"},
		{Keyword: "spotify", GrootboekCode: "4560", BTWPercentage: "21", CategoryName: "Abonnementen"},
		{Keyword: "bol.com", GrootboekCode: "4500", BTWPercentage: "21", CategoryName: "Kantoorkosten"},
		{Keyword: "coolblue", GrootboekCode: "4500", BTWPercentage: "21", CategoryName: "Kantoorkosten"},
		{Keyword: "eneco", GrootboekCode: "4110", BTWPercentage: "21", CategoryName: "Energie"},
		{Keyword: "vattenfall", GrootboekCode: "4110", BTWPercentage: "21", CategoryName: "Energie"},
		{Keyword: "huur", GrootboekCode: "4100", BTWPercentage: "vrijgesteld", CategoryName: "Huur / Hypotheek"},
		{Keyword: "verzekering", GrootboekCode: "4700", BTWPercentage: "vrijgesteld", CategoryName: "Verzekeringen"},
		{Keyword: "kosten betaalrekening", GrootboekCode: "4900", BTWPercentage: "vrijgesteld", CategoryName: "Bankkosten"},
		{Keyword: "belastingdienst", GrootboekCode: "1500", BTWPercentage: "0", CategoryName: "Belastingen", Priority: 110},
		{Keyword: "salaris", GrootboekCode: "4000", BTWPercentage: "0", CategoryName: "Salaris", MatchType: models.MatchContains, Priority: 110},
	}
	for i := range rules {
		if rules[i].Priority == 0 {
			rules[i].Priority = models.DefaultRulePriority
		}
	}
	return rules
}
