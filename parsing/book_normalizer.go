// parsing/book_normalizer.go - Book name normalization
package parsing

import "strings"

// BookNormalizer maps alias book names to the canonical names used by the
// translation data. Lookups are exact after trimming; variant casings and
// abbreviations are separate table rows on purpose.
type BookNormalizer struct {
	mappings map[string]string
}

// NewBookNormalizer builds a normalizer with the default alias table.
func NewBookNormalizer() *BookNormalizer {
	return &BookNormalizer{
		mappings: map[string]string{
			// Psalms variations
			"Psalm":  "Psalms",
			"Ps":     "Psalms",
			"PSALM":  "Psalms",
			"PSALMS": "Psalms",
		},
	}
}

// Normalize returns the canonical name for book, or the trimmed input
// unchanged when no mapping exists.
func (n *BookNormalizer) Normalize(book string) string {
	if book == "" {
		return book
	}

	book = strings.TrimSpace(book)

	if canonical, ok := n.mappings[book]; ok {
		return canonical
	}
	return book
}

// AddMapping inserts or overwrites an alias entry. Treat this as setup-time
// configuration; writes are not synchronized with concurrent Normalize calls.
func (n *BookNormalizer) AddMapping(from, to string) {
	n.mappings[from] = to
}
