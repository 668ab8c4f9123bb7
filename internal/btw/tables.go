package btw

import "bscpro/bank-export/internal/models"

type merchantGroup struct {
	category string
	rate     models.BTWRate
	names    []string
}

// Known merchants per category. Within a text the longest matching name
// wins, so "ing verzekeringen" beats "ing" and "belastingadviseur" beats
// "belasting".
var merchantGroups = []merchantGroup{
	{"voeding", models.BTW9, []string{
		"albert heijn", "ah", "jumbo", "lidl", "aldi", "plus", "spar", "dirk",
		"dekamarkt", "vomar", "hoogvliet", "ekoplaza", "marqt", "sligro", "hanos",
		"makro", "jan linders", "coop", "poiesz", "nettorama",
	}},
	{"horeca", models.BTW9, []string{
		"starbucks", "kiosk", "julia's", "smulders", "leonardo's", "la place",
		"mcdonalds", "burger king", "kfc", "subway",
	}},
	{"boeken", models.BTW9, []string{"bruna", "akoplein", "libris", "boekhandel"}},
	{"medicijnen", models.BTW9, []string{
		"etos", "kruidvat", "da drogist", "d.i.o.", "holland & barrett", "de tuinen",
	}},
	{"ov", models.BTW9, []string{
		"ns", "nederlandse spoorwegen", "arriva", "connexxion", "gvb", "ret", "htm",
		"q buzz", "qbuzz", "flixbus", "ov-chipkaart",
	}},
	{"water", models.BTW9, []string{"vitens", "evides", "waternet", "brabant water"}},
	{"brandstof", models.BTW21, []string{"shell", "bp", "esso", "total", "tinq", "tango", "tamoil", "argos"}},
	{"elektronica", models.BTW21, []string{
		"mediamarkt", "coolblue", "alternate", "azerty", "centralpoint", "expert", "apple store",
	}},
	{"kleding", models.BTW21, []string{
		"wehkamp", "zalando", "h&m", "c&a", "primark", "zeeman", "hema", "bijenkorf",
	}},
	{"meubels", models.BTW21, []string{"ikea", "leen bakker", "praxis", "gamma", "karwei", "hornbach"}},
	{"verzekering", models.BTWExempt, []string{
		"ing verzekeringen", "aegon", "achmea", "zilveren kruis", "vgz", "cz", "menzis",
		"dsw", "ohpen", "interpolis", "centraal beheer", "nationale nederlanden", "nn",
		"asr", "fbto", "unive", "univé", "anwb verzekeringen", "onvz",
	}},
	{"bank", models.BTWExempt, []string{
		"ing", "ing bank", "rabobank", "abn amro", "sns bank", "regiobank", "asn bank",
		"triodos bank", "knab", "bunq", "revolut",
	}},
	{"betaaldienst", models.BTWExempt, []string{"paypal", "stripe", "mollie", "adyen"}},
	{"zorg", models.BTWExempt, []string{
		"ziekenhuis", "huisarts", "tandarts", "fysiotherapie", "fysio", "apotheek",
		"kliniek", "thuiszorg", "ggz", "mondzorg",
	}},
	{"onderwijs", models.BTWExempt, []string{
		"universiteit", "hogeschool", "school", "studielink",
	}},
	{"sport", models.BTW21, []string{
		"basic fit", "basic-fit", "fit for free", "sportcity", "healthcity", "anytime fitness",
	}},
	{"telecom", models.BTW21, []string{
		"kpn", "vodafone", "t-mobile", "odido", "tele2", "simyo", "hollandsnieuwe", "ben",
		"youfone", "lebara", "lyca", "ziggo", "xs4all", "telfort",
	}},
	{"energie", models.BTW21, []string{
		"eneco", "essent", "vandebron", "greenchoice", "energiedirect", "pure energie",
		"engie", "e.on", "vattenfall", "nuon", "budget energie",
	}},
	{"overheid", models.BTW0, []string{
		"gemeente", "belastingdienst", "belasting", "waterschap", "cbs", "kadaster",
		"duo", "rdw", "cbr", "kamer van koophandel", "kvk", "svb", "uwv",
	}},
	{"auto", models.BTW21, []string{
		"autobedrijf", "garage", "leaseplan", "athlon", "anwb", "wegenwacht",
	}},
	{"bezorging", models.BTW21, []string{
		"thuisbezorgd", "uber eats", "deliveroo", "postnl", "dhl", "dpd", "ups", "fedex", "gls",
	}},
	{"advies", models.BTW21, []string{
		"accountant", "belastingadviseur", "consultancy", "advocaat", "notaris",
	}},
	{"software", models.BTW21, []string{
		"google", "microsoft", "adobe", "slack", "zoom", "dropbox", "spotify", "netflix",
		"exact online", "twinfield", "afas", "moneybird", "snelstart", "visma", "github",
		"atlassian", "jetbrains", "notion",
	}},
}

type keywordGroup struct {
	category    string
	rate        models.BTWRate
	explanation string
	keywords    []string
}

// Description keywords per rate bracket.
var keywordGroups = []keywordGroup{
	{"voeding", models.BTW9, "Voedingsmiddelen vallen onder 9%", []string{
		"boodschappen", "supermarkt", "maaltijd", "lunch", "diner", "restaurant", "bakkerij", "slagerij",
	}},
	{"medicijnen", models.BTW9, "Medicijnen vallen onder 9%", []string{
		"medicijn", "pijnstiller", "paracetamol", "ibuprofen", "drogist",
	}},
	{"boeken", models.BTW9, "Boeken vallen onder 9%", []string{
		"boek", "ebook", "tijdschrift", "krant", "studieboek",
	}},
	{"ov", models.BTW9, "Openbaar vervoer valt onder 9%", []string{
		"trein", "bus", "metro", "tram", "ov-chipkaart", "ov", "ov pay", "treinkaartje",
	}},
	{"verzekering", models.BTWExempt, "Verzekeringen zijn vrijgesteld", []string{
		"verzekering", "premie", "polis",
	}},
	{"zorg", models.BTWExempt, "Zorgdiensten zijn vrijgesteld", []string{
		"zorg", "medisch", "behandeling", "therapie", "ziekenhuis",
	}},
	{"onderwijs", models.BTWExempt, "Onderwijs is vrijgesteld", []string{
		"onderwijs", "les", "cursus", "opleiding", "collegegeld", "studie",
	}},
	{"bank", models.BTWExempt, "Bankdiensten zijn vrijgesteld", []string{
		"bankkosten", "hypotheek", "krediet", "rente", "transactiekosten", "kosten betaalrekening",
	}},
	{"huur", models.BTWExempt, "Woninghuur is vrijgesteld", []string{
		"huur", "servicekosten", "vve",
	}},
	{"salaris", models.BTW0, "Loon valt buiten de BTW", []string{
		"salaris", "salarisbetaling", "loon", "payroll", "vakantiegeld", "uitkering",
	}},
	{"overboeking", models.BTW0, "Eigen overboekingen vallen buiten de BTW", []string{
		"overboeking", "eigen rekening", "spaarrekening", "naar spaar", "van spaar",
		"sparen", "spaar", "storting", "opname", "geldautomaat",
	}},
	{"belasting", models.BTW0, "Belastingen vallen buiten de BTW", []string{
		"belastingdienst", "toeslag", "btw aangifte", "gemeentelijke belasting",
	}},
	{"software", models.BTW21, "Software valt onder 21%", []string{
		"software", "licentie", "abonnement", "cloud", "saas", "app", "hosting",
	}},
}

// categoryRates maps category hints (lowercase) to a rate.
var categoryRates = map[string]models.BTWRate{
	"inkomsten":        models.BTW0,
	"salaris":          models.BTW0,
	"overheid":         models.BTW0,
	"belastingen":      models.BTW0,
	"overboeking":      models.BTW0,
	"sparen":           models.BTW0,
	"zorg":             models.BTWExempt,
	"huur":             models.BTWExempt,
	"huur / hypotheek": models.BTWExempt,
	"bankkosten":       models.BTWExempt,
	"verzekering":      models.BTWExempt,
	"verzekeringen":    models.BTWExempt,
	"onderwijs":        models.BTWExempt,
	"boodschappen":     models.BTW9,
	"horeca":           models.BTW9,
	"transport":        models.BTW9,
	"openbaar vervoer": models.BTW9,
	"boeken":           models.BTW9,
	"brandstof":        models.BTW21,
	"telecom":          models.BTW21,
	"software":         models.BTW21,
	"software / saas":  models.BTW21,
	"abonnementen":     models.BTW21,
	"energie":          models.BTW21,
}
