// Package intent resolves purchase intent from conversational text.
// It extracts the product IDs an assistant reply talks about,
// classifies whether the shopper's message expresses buying language,
// and maps ambiguous referents ("el segundo", "that one") to concrete
// catalog IDs. Pure text heuristics, no I/O.
package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lexicon is the versioned keyword configuration the resolver runs
// on. Keeping it as data rather than inline logic lets new locales or
// phrasings be added without touching control flow.
type Lexicon struct {
	Version string

	// BuyKeywords are single tokens that signal purchase language.
	BuyKeywords []string
	// BuyPhrases are multi-word purchase expressions.
	BuyPhrases []string
	// Demonstratives are generic pronouns referring back to the last
	// mentioned product.
	Demonstratives []string
	// Ordinals map positional words to indices into the mentioned-ID
	// list. -1 means the last element.
	Ordinals map[string]int
}

// DefaultLexicon returns the built-in Spanish/English keyword tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Version: "v1",
		BuyKeywords: []string{
			// Spanish
			"comprar", "compra", "compralo", "comprala",
			"anade", "anadir", "agrega", "agregar", "agregalo",
			"carrito", "quiero", "necesito", "llevo",
			// English
			"buy", "purchase", "add", "cart", "want", "need",
		},
		BuyPhrases: []string{
			"me lo llevo", "me la llevo", "take it", "i'll take",
		},
		Demonstratives: []string{
			"ese", "esa", "eso", "este", "esta", "esto", "lo",
			"that", "this", "it",
		},
		Ordinals: map[string]int{
			"primero": 0, "primera": 0, "primer": 0, "first": 0,
			"segundo": 1, "segunda": 1, "second": 1,
			"tercero": 2, "tercera": 2, "tercer": 2, "third": 2,
			"cuarto": 3, "cuarta": 3, "fourth": 3,
			"ultimo": -1, "ultima": -1, "last": -1,
		},
	}
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize lowercases and strips diacritics so "añádelo" and
// "anadelo" classify identically.
func normalize(text string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return folded
}

// tokenize splits normalized text into letter/digit runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
