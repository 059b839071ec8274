// Package merchant reduces raw bank descriptions to stable merchant keys.
//
// The key is what override rules are stored under, so two charges at different
// locations of the same business must normalize to the same string.
package merchant

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultNoiseTokens are dropped from every key. Extra tokens come from configuration.
var DefaultNoiseTokens = []string{
	"INC", "LLC", "LTD", "CORP", "CO", "COM", "WWW", "NET", "ORG", "USA",
}

var usStates = toSet([]string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN",
	"IA", "KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV",
	"NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN",
	"TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY", "DC",
})

// first words of multi-word city names
var cityPrefixes = toSet([]string{
	"SAN", "SANTA", "LOS", "LAS", "NEW", "ST", "SAINT", "FORT", "FT", "SALT", "PALO", "BATON", "CORPUS",
})

var (
	prefixPattern      = regexp.MustCompile(`^(?:(?:POS PURCHASE|POS DEBIT|POS|DEBIT CARD PURCHASE|DEBIT PURCHASE|CHECKCARD|CHECK CARD|PURCHASE AUTHORIZED ON \d{1,2}/\d{1,2}|RECURRING PAYMENT|VISA|ACH)\s+|(?:SQ|TST|SP|PP|PAYPAL)\s*\*\s*)`)
	referencePattern   = regexp.MustCompile(`\b(REF|REFERENCE|TRN|TXN|CONF|AUTH|ID)\s*[#:.]?\s*[A-Z0-9-]*\d[A-Z0-9-]*`)
	storeNumberPattern = regexp.MustCompile(`#\s*[A-Z0-9-]+`)
	apostrophePattern  = regexp.MustCompile(`['’]`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}0-9&\s]+`)
)

// storeMarker stands in for a removed store number so the location that
// usually follows it can still be told apart from the merchant name.
const storeMarker = " 0 "

// foldAccents maps "CAFÉ" and "CAFE" to the same text.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Normalizer produces merchant keys. The zero value is not usable; use NewNormalizer.
type Normalizer struct {
	noise map[string]struct{}
}

// NewNormalizer returns a Normalizer dropping DefaultNoiseTokens plus extraNoise.
func NewNormalizer(extraNoise ...string) *Normalizer {
	all := make([]string, 0, len(DefaultNoiseTokens)+len(extraNoise))
	all = append(all, DefaultNoiseTokens...)
	for _, tok := range extraNoise {
		if tok = strings.ToUpper(strings.TrimSpace(tok)); tok != "" {
			all = append(all, tok)
		}
	}
	return &Normalizer{noise: toSet(all)}
}

var defaultNormalizer = NewNormalizer()

// Normalize reduces description to a merchant key using the default noise tokens.
func Normalize(description string) string {
	return defaultNormalizer.Normalize(description)
}

// Normalize reduces description to a merchant key. It is pure and deterministic;
// empty input yields "".
func (n *Normalizer) Normalize(description string) string {
	s := strings.ToUpper(foldAccents(strings.TrimSpace(description)))
	if s == "" {
		return ""
	}

	for {
		stripped := strings.TrimSpace(prefixPattern.ReplaceAllString(s, ""))
		if stripped == s || stripped == "" {
			break
		}
		s = stripped
	}

	s = referencePattern.ReplaceAllString(s, " ")
	s = storeNumberPattern.ReplaceAllString(s, storeMarker)
	s = apostrophePattern.ReplaceAllString(s, "")
	s = punctuationPattern.ReplaceAllString(s, " ")

	tokens, lastBreak := splitNumbers(strings.Fields(s))
	tokens = dropLocation(tokens, lastBreak)

	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := n.noise[tok]; !ok {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		kept = tokens
	}

	return strings.Join(kept, " ")
}

// splitNumbers drops every token containing a digit. It returns the remaining
// words and how many of them came before the last dropped token, or -1.
func splitNumbers(fields []string) ([]string, int) {
	words := make([]string, 0, len(fields))
	lastBreak := -1
	for _, f := range fields {
		if strings.ContainsAny(f, "0123456789") {
			lastBreak = len(words)
			continue
		}
		words = append(words, f)
	}
	return words, lastBreak
}

// dropLocation removes a trailing state code and the city in front of it. A
// city is only recognized after a store or reference number ("STORE 12 AUSTIN
// TX") or when it starts with a known city prefix ("SAN FRANCISCO CA"); words
// in front of a bare state code otherwise belong to the merchant.
func dropLocation(tokens []string, lastBreak int) []string {
	n := len(tokens)
	if n < 2 {
		return tokens
	}
	if _, ok := usStates[tokens[n-1]]; !ok {
		return tokens
	}
	tokens = tokens[:n-1]

	if lastBreak > 0 && lastBreak < len(tokens) {
		city := tokens[lastBreak:]
		_, prefixed := cityPrefixes[city[0]]
		if len(city) <= 2 || (len(city) == 3 && prefixed) {
			return tokens[:lastBreak]
		}
	}

	if len(tokens) >= 3 {
		if _, ok := cityPrefixes[tokens[len(tokens)-2]]; ok {
			return tokens[:len(tokens)-2]
		}
	}
	return tokens
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
