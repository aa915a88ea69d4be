// parsing/reference_parser.go - Bible reference parsing
//
// Handles free-form references including discontinuous ranges
// (Psalm 139:1-5, 12-17), cross-chapter spans (John 3:16-4:1), optional
// bracketed verses (Luke 1:39-45[46-55]), parenthesized syntax and
// verse-letter suffixes (Habakkuk 3:2-19a).
package parsing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ChapterSource supplies the verse-number -> text mapping for one
// (book, chapter, version) triple. Unknown combinations report false rather
// than an error so the parser's skip-vs-fail policy applies uniformly; a
// transport failure or timeout counts as absence too.
type ChapterSource interface {
	FetchChapter(ctx context.Context, book, chapter, version string) (map[string]string, bool)
}

// Verse is a single resolved verse. Verse holds the purely numeric key the
// chapter data was looked up with; letter suffixes are stripped beforehand.
type Verse struct {
	Verse string `json:"verse"`
	Text  string `json:"text"`
}

// Result is the uniform outcome of a Parse call. Parsed is true iff Verses is
// non-empty and resolution raised no fault; on failure Error is set and
// FormattedText is the "[Reading: ...]" placeholder for the raw input.
type Result struct {
	Reference      string  `json:"reference"`
	Parsed         bool    `json:"parsed"`
	Book           string  `json:"book,omitempty"`
	Chapter        string  `json:"chapter,omitempty"`
	StartChapter   int     `json:"start_chapter,omitempty"`
	EndChapter     int     `json:"end_chapter,omitempty"`
	Verses         []Verse `json:"verses,omitempty"`
	OptionalVerses []Verse `json:"optional_verses,omitempty"`
	FormattedText  string  `json:"formatted_text"`
	Error          string  `json:"error,omitempty"`
}

// Failure taxonomy. Every resolver fault is folded into one of these (or a
// strconv error for malformed numbers) and surfaces as Result.Error; nothing
// escapes Parse.
var (
	ErrEmptyReference     = errors.New("Empty reference")
	ErrReferenceFormat    = errors.New("Invalid reference format")
	ErrUnparsable         = errors.New("Could not parse reference")
	ErrChapterUnavailable = errors.New("Could not fetch chapter data")
	ErrNoVersesFound      = errors.New("No verses found")
	ErrCrossChapterFormat = errors.New("Invalid cross-chapter reference format")
	ErrOptionalFormat     = errors.New("Invalid optional verse format")
)

var crossChapterRe = regexp.MustCompile(`^(.+?)\s+(\d+):(\d+)-(\d+):(\d+)$`)
var parensRe = regexp.MustCompile(`[()]`)

// refShape classifies a reference into one of the five syntactic shapes the
// resolver dispatch understands.
type refShape int

const (
	shapeSimple refShape = iota
	shapeDiscontinuous
	shapeCrossChapter
	shapeOptional
	shapeComplex
)

// classify picks the shape by textual features, first match wins.
func classify(ref string) refShape {
	switch {
	case strings.Contains(ref, "[") && strings.Contains(ref, "]"):
		return shapeOptional
	case strings.Contains(ref, ","):
		return shapeDiscontinuous
	case strings.Contains(ref, "-") && strings.Count(ref, ":") >= 2:
		return shapeCrossChapter
	case strings.Contains(ref, "(") && strings.Contains(ref, ")"):
		return shapeComplex
	default:
		return shapeSimple
	}
}

// Parser resolves references against an injected ChapterSource. It holds no
// mutable state beyond the read-only alias table, so a single Parser is safe
// for concurrent use.
type Parser struct {
	source       ChapterSource
	books        *BookNormalizer
	version      string
	fetchTimeout time.Duration
}

// NewParser creates a parser with a default version used when Parse is called
// with an empty one. A nil normalizer gets the default alias table.
func NewParser(source ChapterSource, books *BookNormalizer, defaultVersion string) *Parser {
	if books == nil {
		books = NewBookNormalizer()
	}
	return &Parser{
		source:       source,
		books:        books,
		version:      defaultVersion,
		fetchTimeout: 10 * time.Second,
	}
}

// Parse resolves a reference string into an ordered verse selection. It never
// returns an error: any fault becomes a failure Result with Parsed=false.
func (p *Parser) Parse(ctx context.Context, reference, version string) Result {
	if strings.TrimSpace(reference) == "" {
		return failure(reference, ErrEmptyReference)
	}
	if version == "" {
		version = p.version
	}

	ref := strings.TrimSpace(reference)

	var (
		res Result
		err error
	)
	switch classify(ref) {
	case shapeOptional:
		res, err = p.resolveOptional(ctx, ref, version)
	case shapeDiscontinuous:
		res, err = p.resolveDiscontinuous(ctx, ref, version)
	case shapeCrossChapter:
		res, err = p.resolveCrossChapter(ctx, ref, version)
	case shapeComplex:
		res, err = p.resolveComplex(ctx, ref, version)
	default:
		res, err = p.resolveSimple(ctx, ref, version)
	}
	if err != nil {
		return failure(reference, err)
	}
	return res
}

func failure(reference string, err error) Result {
	return Result{
		Reference:     reference,
		Parsed:        false,
		Error:         err.Error(),
		FormattedText: fmt.Sprintf("[Reading: %s]", reference),
	}
}

// fetchChapter applies the caller deadline plus a bounded per-fetch timeout.
// Absence, cancellation and transport failures all come back as nil.
func (p *Parser) fetchChapter(ctx context.Context, book, chapter, version string) map[string]string {
	if ctx.Err() != nil {
		return nil
	}
	if p.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.fetchTimeout)
		defer cancel()
	}
	data, ok := p.source.FetchChapter(ctx, book, chapter, version)
	if !ok {
		return nil
	}
	return data
}

// resolveSimple handles 'John 3:16', 'Psalm 23:1-6' and the colon-less
// chapter forms 'Psalm 146' / 'Philemon 1-21'.
func (p *Parser) resolveSimple(ctx context.Context, ref, version string) (Result, error) {
	book, chapter, verseRange, err := splitSimple(ref)
	if err != nil {
		return Result{}, err
	}
	if book == "" || chapter == "" {
		return Result{}, ErrUnparsable
	}
	book = p.books.Normalize(book)

	chapterData := p.fetchChapter(ctx, book, chapter, version)
	if chapterData == nil {
		return Result{}, ErrChapterUnavailable
	}

	verses, err := extractVerses(chapterData, verseRange)
	if err != nil {
		return Result{}, err
	}
	if len(verses) == 0 {
		return Result{}, ErrNoVersesFound
	}

	return Result{
		Reference:     ref,
		Parsed:        true,
		Book:          book,
		Chapter:       chapter,
		Verses:        verses,
		FormattedText: joinVerses(verses),
	}, nil
}

// resolveDiscontinuous handles comma-separated ranges like
// 'Psalm 139:1-5, 12-17'. The first segment supplies the default book and
// chapter; a segment whose chapter cannot be fetched is skipped.
func (p *Parser) resolveDiscontinuous(ctx context.Context, ref, version string) (Result, error) {
	parts := strings.Split(ref, ",")

	first := strings.TrimSpace(parts[0])
	if !strings.Contains(first, ":") {
		return Result{}, ErrReferenceFormat
	}
	bookChapter, _, _ := strings.Cut(first, ":")
	book, chapter := splitBookChapter(bookChapter)
	book = p.books.Normalize(book)

	var all []Verse
	for _, part := range parts {
		part = strings.TrimSpace(part)

		partBook, partChapter := book, chapter
		versePart := part
		if strings.Contains(part, ":") {
			bc, vp, _ := strings.Cut(part, ":")
			partBook, partChapter = splitBookChapter(bc)
			partBook = p.books.Normalize(partBook)
			versePart = vp
		}

		chapterData := p.fetchChapter(ctx, partBook, partChapter, version)
		if chapterData == nil {
			continue
		}

		verses, err := extractVerses(chapterData, CleanVerseSuffix(strings.TrimSpace(versePart)))
		if err != nil {
			return Result{}, err
		}
		all = append(all, verses...)
	}

	if len(all) == 0 {
		return Result{}, ErrNoVersesFound
	}

	return Result{
		Reference:     ref,
		Parsed:        true,
		Book:          book,
		Chapter:       chapter,
		Verses:        all,
		FormattedText: joinVerses(all),
	}, nil
}

// resolveCrossChapter handles 'BOOK C:V-C:V'. For a true cross-chapter span
// it takes the start chapter from the start verse to its last numeric verse,
// then the end chapter from verse 1 to the end verse.
func (p *Parser) resolveCrossChapter(ctx context.Context, ref, version string) (Result, error) {
	m := crossChapterRe.FindStringSubmatch(ref)
	if m == nil {
		return Result{}, ErrCrossChapterFormat
	}

	book := p.books.Normalize(strings.TrimSpace(m[1]))
	startChapter, _ := strconv.Atoi(m[2])
	startVerse, _ := strconv.Atoi(m[3])
	endChapter, _ := strconv.Atoi(m[4])
	endVerse, _ := strconv.Atoi(m[5])

	var all []Verse
	if startChapter == endChapter {
		if chapterData := p.fetchChapter(ctx, book, m[2], version); chapterData != nil {
			all = append(all, ExtractRange(chapterData, startVerse, endVerse)...)
		}
	} else {
		if chapterData := p.fetchChapter(ctx, book, m[2], version); chapterData != nil {
			if max := maxVerseNumber(chapterData); max > 0 {
				all = append(all, ExtractRange(chapterData, startVerse, max)...)
			}
		}
		if chapterData := p.fetchChapter(ctx, book, m[4], version); chapterData != nil {
			all = append(all, ExtractRange(chapterData, 1, endVerse)...)
		}
	}

	if len(all) == 0 {
		return Result{}, ErrNoVersesFound
	}

	return Result{
		Reference:     ref,
		Parsed:        true,
		Book:          book,
		StartChapter:  startChapter,
		EndChapter:    endChapter,
		Verses:        all,
		FormattedText: joinVerses(all),
	}, nil
}

// resolveOptional handles 'Luke 1:39-45[46-55]': the part before the bracket
// resolves as a simple reference, the bracketed range lands in
// OptionalVerses, and the reported reference is the full original string.
func (p *Parser) resolveOptional(ctx context.Context, ref, version string) (Result, error) {
	i := strings.Index(ref, "[")
	if i < 0 {
		return Result{}, ErrOptionalFormat
	}
	j := strings.Index(ref[i+1:], "]")
	if j < 0 {
		return Result{}, ErrOptionalFormat
	}
	mainPart := strings.TrimSpace(ref[:i])
	optionalPart := strings.TrimSpace(ref[i+1 : i+1+j])

	res, err := p.resolveSimple(ctx, mainPart, version)
	if err != nil {
		return Result{}, err
	}

	bookChapter, _, ok := strings.Cut(mainPart, ":")
	if !ok {
		return Result{}, ErrOptionalFormat
	}
	book, chapter := splitBookChapter(bookChapter)
	book = p.books.Normalize(book)

	// An unavailable chapter just leaves OptionalVerses empty; the main
	// selection already resolved.
	if chapterData := p.fetchChapter(ctx, book, chapter, version); chapterData != nil {
		optional, err := extractVerses(chapterData, optionalPart)
		if err != nil {
			return Result{}, err
		}
		res.OptionalVerses = optional
	}

	res.Reference = ref
	return res, nil
}

// resolveComplex strips parenthesis characters (not their contents) and
// retries as a simple reference. Nested sub-ranges get no special treatment.
func (p *Parser) resolveComplex(ctx context.Context, ref, version string) (Result, error) {
	return p.resolveSimple(ctx, parensRe.ReplaceAllString(ref, ""), version)
}

// splitSimple breaks a simple reference into book, chapter and verse range.
func splitSimple(ref string) (book, chapter, verseRange string, err error) {
	if !strings.Contains(ref, ":") {
		return splitChapterOnly(ref)
	}

	bookChapter, versePart, _ := strings.Cut(ref, ":")
	book, chapter = splitBookChapter(bookChapter)
	return book, chapter, strings.TrimSpace(versePart), nil
}

// splitChapterOnly handles the colon-less forms. 'Psalm 146' selects the
// whole chapter via the 1-end sentinel. 'Philemon 1-21' requests chapter 1
// with the range '1-21': the end chapter number is reused as a verse bound,
// observed behavior kept as-is.
func splitChapterOnly(ref string) (book, chapter, verseRange string, err error) {
	fields := strings.Fields(ref)
	if len(fields) < 2 {
		return "", "", "", ErrReferenceFormat
	}

	book = strings.Join(fields[:len(fields)-1], " ")
	token := fields[len(fields)-1]

	if start, end, ok := strings.Cut(token, "-"); ok {
		return book, start, "1-" + end, nil
	}
	return book, token, "1-end", nil
}

// splitBookChapter splits the pre-colon portion on its last space; with no
// space the chapter defaults to "1" (single-chapter books like Jude).
func splitBookChapter(s string) (book, chapter string) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, " "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	}
	return s, "1"
}

// extractVerses resolves a verse-range token ('16', '1-5', '5-end', '2-19a')
// against chapter data. Verse numbers missing from the chapter are silently
// omitted; manuscript numbering is not always contiguous.
func extractVerses(chapterData map[string]string, verseRange string) ([]Verse, error) {
	verseRange = strings.TrimSpace(verseRange)

	if startTok, endTok, ok := strings.Cut(verseRange, "-"); ok {
		start, err := strconv.Atoi(CleanVerseSuffix(strings.TrimSpace(startTok)))
		if err != nil {
			return nil, err
		}

		var end int
		if strings.EqualFold(strings.TrimSpace(endTok), "end") {
			end = maxVerseNumber(chapterData)
			if end == 0 {
				end = start
			}
		} else {
			end, err = strconv.Atoi(CleanVerseSuffix(strings.TrimSpace(endTok)))
			if err != nil {
				return nil, err
			}
		}
		return ExtractRange(chapterData, start, end), nil
	}

	key := CleanVerseSuffix(verseRange)
	if text, ok := chapterData[key]; ok && text != "" {
		return []Verse{{Verse: key, Text: text}}, nil
	}
	return nil, nil
}

// ExtractRange collects every present verse in [start, end] inclusive.
func ExtractRange(chapterData map[string]string, start, end int) []Verse {
	var verses []Verse
	for num := start; num <= end; num++ {
		key := strconv.Itoa(num)
		if text, ok := chapterData[key]; ok && text != "" {
			verses = append(verses, Verse{Verse: key, Text: text})
		}
	}
	return verses
}

// maxVerseNumber returns the largest numeric verse key, 0 when none exist.
func maxVerseNumber(chapterData map[string]string) int {
	max := 0
	for key := range chapterData {
		if num, err := strconv.Atoi(key); err == nil && num > max {
			max = num
		}
	}
	return max
}

// joinVerses renders the plain 'NUM text' display form. The HTML form lives
// in VerseFormatter.
func joinVerses(verses []Verse) string {
	parts := make([]string, 0, len(verses))
	for _, v := range verses {
		if v.Verse != "" && v.Text != "" {
			parts = append(parts, v.Verse+" "+v.Text)
		}
	}
	return strings.Join(parts, " ")
}
