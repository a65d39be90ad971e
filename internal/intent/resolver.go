package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the resolver's verdict for one assistant turn. ProductIDs
// is deduplicated and insertion-ordered; it may be empty with
// Detected still true, meaning buying language without a resolvable
// target — callers must not invent a product in that case.
type Intent struct {
	Detected   bool  `json:"detected"`
	ProductIDs []int `json:"productIds"`
}

// explicitRefPattern matches an explicit numeric reference in the
// shopper's message: "el 5", "id 5", "producto 5", "the 5".
var explicitRefPattern = regexp.MustCompile(`\b(?:el|id|producto|product|the)\s*[:#]?\s*(\d+)`)

// Resolver applies the keyword tables to classify and resolve
// purchase intent. Deterministic: identical inputs always yield
// identical output.
type Resolver struct {
	lexicon  Lexicon
	keywords map[string]bool
	demons   map[string]bool
}

// NewResolver creates a resolver over a lexicon.
func NewResolver(lexicon Lexicon) *Resolver {
	r := &Resolver{
		lexicon:  lexicon,
		keywords: make(map[string]bool, len(lexicon.BuyKeywords)),
		demons:   make(map[string]bool, len(lexicon.Demonstratives)),
	}
	for _, k := range lexicon.BuyKeywords {
		r.keywords[normalize(k)] = true
	}
	for _, d := range lexicon.Demonstratives {
		r.demons[normalize(d)] = true
	}
	return r
}

// Resolve classifies the shopper's message and, when it expresses
// buying language, maps its referent to a concrete mentioned ID.
func (r *Resolver) Resolve(userMessage string, mentionedIDs []int) Intent {
	message := normalize(userMessage)
	tokens := tokenize(message)

	if !r.hasBuyIntent(message, tokens) {
		return Intent{Detected: false, ProductIDs: []int{}}
	}

	// Referent rules in strict priority order; the first that fires
	// wins.
	if id, ok := r.resolveOrdinal(tokens, mentionedIDs); ok {
		return Intent{Detected: true, ProductIDs: []int{id}}
	}
	if id, ok := resolveExplicit(message, mentionedIDs); ok {
		return Intent{Detected: true, ProductIDs: []int{id}}
	}
	if len(mentionedIDs) > 0 {
		if r.hasDemonstrative(tokens) {
			return Intent{Detected: true, ProductIDs: []int{mentionedIDs[len(mentionedIDs)-1]}}
		}
		return Intent{Detected: true, ProductIDs: []int{mentionedIDs[0]}}
	}

	// Buying language with nothing to bind it to.
	return Intent{Detected: true, ProductIDs: []int{}}
}

func (r *Resolver) hasBuyIntent(message string, tokens []string) bool {
	for _, phrase := range r.lexicon.BuyPhrases {
		if strings.Contains(message, normalize(phrase)) {
			return true
		}
	}
	for _, token := range tokens {
		if r.keywords[token] {
			return true
		}
	}
	return false
}

// resolveOrdinal maps the first positional word in the message to an
// index into the mentioned-ID list. Does not fire when the index is
// out of bounds.
func (r *Resolver) resolveOrdinal(tokens []string, mentionedIDs []int) (int, bool) {
	for _, token := range tokens {
		idx, ok := r.lexicon.Ordinals[token]
		if !ok {
			continue
		}
		if idx == -1 {
			idx = len(mentionedIDs) - 1
		}
		if idx >= 0 && idx < len(mentionedIDs) {
			return mentionedIDs[idx], true
		}
		return 0, false
	}
	return 0, false
}

// resolveExplicit fires when the message names a number that is among
// the mentioned IDs.
func resolveExplicit(message string, mentionedIDs []int) (int, bool) {
	for _, m := range explicitRefPattern.FindAllStringSubmatch(message, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		for _, id := range mentionedIDs {
			if id == n {
				return id, true
			}
		}
	}
	return 0, false
}

func (r *Resolver) hasDemonstrative(tokens []string) bool {
	for _, token := range tokens {
		if r.demons[token] {
			return true
		}
	}
	return false
}
