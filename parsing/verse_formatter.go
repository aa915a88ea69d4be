// parsing/verse_formatter.go - HTML formatting for resolved verses
package parsing

import "strings"

// Pilcrow is the embedded paragraph-break marker in verse text.
const Pilcrow = "¶"

// VerseFormatter renders an ordered verse list as paragraph-grouped HTML.
// Verse text is concatenated as-is; the source data must not contain unsafe
// markup.
type VerseFormatter struct{}

// NewVerseFormatter creates a formatter.
func NewVerseFormatter() *VerseFormatter {
	return &VerseFormatter{}
}

// Format renders the verses as one <p> per pilcrow-delimited paragraph. With
// no pilcrow anywhere, the whole list is a single paragraph.
func (f *VerseFormatter) Format(verses []Verse) string {
	if len(verses) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, paragraph := range f.groupIntoParagraphs(verses) {
		sb.WriteString(f.formatParagraph(paragraph))
	}
	return sb.String()
}

// groupIntoParagraphs closes the current paragraph after each verse carrying
// a pilcrow; the marker itself is stripped from the verse text.
func (f *VerseFormatter) groupIntoParagraphs(verses []Verse) [][]Verse {
	hasPilcrow := false
	for _, v := range verses {
		if strings.Contains(v.Text, Pilcrow) {
			hasPilcrow = true
			break
		}
	}
	if !hasPilcrow {
		return [][]Verse{verses}
	}

	var paragraphs [][]Verse
	var current []Verse
	for _, v := range verses {
		if strings.Contains(v.Text, Pilcrow) {
			clean := strings.TrimSpace(strings.ReplaceAll(v.Text, Pilcrow, ""))
			if clean != "" {
				current = append(current, Verse{Verse: v.Verse, Text: clean})
			}
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, v)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs
}

func (f *VerseFormatter) formatParagraph(verses []Verse) string {
	var sb strings.Builder
	for _, v := range verses {
		if v.Verse == "" || v.Text == "" {
			continue
		}
		sb.WriteString(f.formatSingleVerse(v.Verse, v.Text))
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<p>" + sb.String() + "</p>"
}

// formatSingleVerse keeps the verse number glued to the first two words in a
// nowrap span so a line break cannot strand a lone number.
func (f *VerseFormatter) formatSingleVerse(verseNum, text string) string {
	words := strings.Fields(text)
	if len(words) < 2 {
		return `<span class="verse"><span class="verse-number">` + verseNum + `</span> ` + text + `</span>`
	}

	firstTwo := strings.Join(words[:2], " ")
	remaining := strings.Join(words[2:], " ")

	return `<span class="verse"><span class="nowrap"><span class="verse-number">` + verseNum +
		`</span> ` + firstTwo + `</span> ` + remaining + `</span>`
}

// CleanVerseSuffix strips exactly one trailing verse-letter suffix (a-h) from
// a verse token. Purely syntactic: '19a' and a book token ending in 'a' are
// treated alike, a known ambiguity of print-edition suffixes.
func CleanVerseSuffix(token string) string {
	if token == "" {
		return token
	}
	if c := token[len(token)-1]; c >= 'a' && c <= 'h' {
		return token[:len(token)-1]
	}
	return token
}

// CleanVerseSuffix on the formatter mirrors the package function for callers
// holding only a *VerseFormatter.
func (f *VerseFormatter) CleanVerseSuffix(token string) string {
	return CleanVerseSuffix(token)
}
