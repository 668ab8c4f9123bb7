package btw

import "strings"

// TrustLevel grades how much a detected rate can be relied upon.
type TrustLevel string

// Trust levels.
const (
	TrustHigh   TrustLevel = "high"
	TrustMedium TrustLevel = "medium"
	TrustLow    TrustLevel = "low"
)

// Trust is the reviewer-facing assessment of a detection.
type Trust struct {
	Level         TrustLevel `json:"level"`
	Score         int        `json:"score"`
	RequiresCheck bool       `json:"requires_check"`
	Message       string     `json:"message"`
}

// Merchants that sell goods at both 9% and 21%.
var mixedRateMerchants = []string{
	"hema", "amazon", "bol.com", "coolblue", "wehkamp", "gamma",
	"praxis", "karwei", "ikea", "makro", "sligro", "hanos",
}

var possiblyMixedMerchants = []string{
	"mediamarkt", "expert", "bcc", "bijenkorf", "zalando",
}

// TrustScore grades result for the given counterparty.
func TrustScore(result Result, counterparty string) Trust {
	name := strings.ToLower(strings.TrimSpace(counterparty))
	mixed := containsAny(name, mixedRateMerchants)
	possiblyMixed := containsAny(name, possiblyMixedMerchants)

	switch {
	case result.Confidence >= 95 && !mixed && !possiblyMixed:
		return Trust{Level: TrustHigh, Score: result.Confidence, Message: "Zeer betrouwbaar, automatisch geclassificeerd"}
	case result.Confidence >= 70 && !mixed:
		msg := "Snel checken aanbevolen"
		if possiblyMixed {
			msg = "Controleer deze transactie, gemixte producten mogelijk"
		}
		return Trust{
			Level:         TrustMedium,
			Score:         result.Confidence,
			RequiresCheck: possiblyMixed || result.Confidence < 85,
			Message:       msg,
		}
	case mixed:
		return Trust{Level: TrustLow, Score: result.Confidence, RequiresCheck: true, Message: "Verkoper rekent zowel 9% als 21%, controleer zelf"}
	default:
		return Trust{Level: TrustLow, Score: result.Confidence, RequiresCheck: true, Message: "Check verplicht, onbekende transactie"}
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
