package parsing

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

// fakeSource serves canned chapters keyed by "Book Chapter".
type fakeSource struct {
	chapters map[string]map[string]string
}

func (f *fakeSource) FetchChapter(ctx context.Context, book, chapter, version string) (map[string]string, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	data, ok := f.chapters[book+" "+chapter]
	return data, ok
}

func chapterRange(start, end int) map[string]string {
	out := make(map[string]string, end-start+1)
	for n := start; n <= end; n++ {
		key := strconv.Itoa(n)
		out[key] = "Text of verse " + key + " here."
	}
	return out
}

func testParser() *Parser {
	source := &fakeSource{chapters: map[string]map[string]string{
		"Jeremiah 18":       chapterRange(1, 11),
		"Psalms 139":        mergeChapters(chapterRange(1, 5), chapterRange(12, 17)),
		"Psalms 104":        chapterRange(26, 37),
		"Psalms 146":        chapterRange(1, 10),
		"John 3":            chapterRange(16, 21),
		"John 4":            chapterRange(1, 3),
		"Luke 1":            chapterRange(39, 55),
		"Habakkuk 3":        chapterRange(1, 19),
		"Philemon 1":        chapterRange(1, 25),
		"Song of Solomon 2": chapterRange(1, 3),
	}}
	return NewParser(source, NewBookNormalizer(), "asv")
}

func mergeChapters(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func verseNumbers(verses []Verse) []string {
	out := make([]string, 0, len(verses))
	for _, v := range verses {
		out = append(out, v.Verse)
	}
	return out
}

func TestParseSuccess(t *testing.T) {
	tests := []struct {
		name        string
		reference   string
		wantBook    string
		wantChapter string
		wantVerses  int
		wantFirst   string
		wantLast    string
	}{
		{
			name:        "simple range",
			reference:   "Jeremiah 18:1-11",
			wantBook:    "Jeremiah",
			wantChapter: "18",
			wantVerses:  11,
			wantFirst:   "1",
			wantLast:    "11",
		},
		{
			name:        "single verse",
			reference:   "Jeremiah 18:5",
			wantBook:    "Jeremiah",
			wantChapter: "18",
			wantVerses:  1,
			wantFirst:   "5",
			wantLast:    "5",
		},
		{
			name:        "end sentinel",
			reference:   "Jeremiah 18:5-end",
			wantBook:    "Jeremiah",
			wantChapter: "18",
			wantVerses:  7,
			wantFirst:   "5",
			wantLast:    "11",
		},
		{
			name:        "discontinuous range",
			reference:   "Psalm 139:1-5, 12-17",
			wantBook:    "Psalms",
			wantChapter: "139",
			wantVerses:  11,
			wantFirst:   "1",
			wantLast:    "17",
		},
		{
			name:        "discontinuous single tail",
			reference:   "Psalm 104:26-36,37",
			wantBook:    "Psalms",
			wantChapter: "104",
			wantVerses:  12,
			wantFirst:   "26",
			wantLast:    "37",
		},
		{
			name:        "verse-letter suffix",
			reference:   "Habakkuk 3:2-19a",
			wantBook:    "Habakkuk",
			wantChapter: "3",
			wantVerses:  18,
			wantFirst:   "2",
			wantLast:    "19",
		},
		{
			name:        "chapter only",
			reference:   "Psalm 146",
			wantBook:    "Psalms",
			wantChapter: "146",
			wantVerses:  10,
			wantFirst:   "1",
			wantLast:    "10",
		},
		{
			name:        "chapter range shorthand",
			reference:   "Philemon 1-21",
			wantBook:    "Philemon",
			wantChapter: "1",
			wantVerses:  21,
			wantFirst:   "1",
			wantLast:    "21",
		},
		{
			name:        "multi-word book chapter only",
			reference:   "Song of Solomon 2",
			wantBook:    "Song of Solomon",
			wantChapter: "2",
			wantVerses:  3,
			wantFirst:   "1",
			wantLast:    "3",
		},
		{
			name:        "parenthesized syntax",
			reference:   "(Jeremiah 18:5)",
			wantBook:    "Jeremiah",
			wantChapter: "18",
			wantVerses:  1,
			wantFirst:   "5",
			wantLast:    "5",
		},
	}

	parser := testParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(context.Background(), tt.reference, "asv")

			if !result.Parsed {
				t.Fatalf("Parse(%q) failed: %s", tt.reference, result.Error)
			}
			if result.Reference != tt.reference {
				t.Errorf("reference = %q, want %q", result.Reference, tt.reference)
			}
			if result.Book != tt.wantBook {
				t.Errorf("book = %q, want %q", result.Book, tt.wantBook)
			}
			if result.Chapter != tt.wantChapter {
				t.Errorf("chapter = %q, want %q", result.Chapter, tt.wantChapter)
			}
			if len(result.Verses) != tt.wantVerses {
				t.Fatalf("got %d verses %v, want %d",
					len(result.Verses), verseNumbers(result.Verses), tt.wantVerses)
			}
			if result.Verses[0].Verse != tt.wantFirst {
				t.Errorf("first verse = %q, want %q", result.Verses[0].Verse, tt.wantFirst)
			}
			if last := result.Verses[len(result.Verses)-1].Verse; last != tt.wantLast {
				t.Errorf("last verse = %q, want %q", last, tt.wantLast)
			}
			if result.FormattedText == "" {
				t.Error("formatted text is empty")
			}
		})
	}
}

func TestParseCrossChapter(t *testing.T) {
	parser := testParser()
	result := parser.Parse(context.Background(), "John 3:16-4:1", "asv")

	if !result.Parsed {
		t.Fatalf("Parse failed: %s", result.Error)
	}
	if result.Book != "John" {
		t.Errorf("book = %q, want John", result.Book)
	}
	if result.StartChapter != 3 || result.EndChapter != 4 {
		t.Errorf("chapters = %d-%d, want 3-4", result.StartChapter, result.EndChapter)
	}
	// 16-21 from chapter 3, then verse 1 of chapter 4
	want := []string{"16", "17", "18", "19", "20", "21", "1"}
	if got := verseNumbers(result.Verses); !reflect.DeepEqual(got, want) {
		t.Errorf("verses = %v, want %v", got, want)
	}
}

func TestParseCrossChapterSameChapter(t *testing.T) {
	parser := testParser()
	result := parser.Parse(context.Background(), "John 3:16-3:18", "asv")

	if !result.Parsed {
		t.Fatalf("Parse failed: %s", result.Error)
	}
	if result.StartChapter != 3 || result.EndChapter != 3 {
		t.Errorf("chapters = %d-%d, want 3-3", result.StartChapter, result.EndChapter)
	}
	if len(result.Verses) != 3 {
		t.Errorf("got %d verses, want 3", len(result.Verses))
	}
}

func TestParseOptionalVerses(t *testing.T) {
	parser := testParser()
	result := parser.Parse(context.Background(), "Luke 1:39-45[46-55]", "asv")

	if !result.Parsed {
		t.Fatalf("Parse failed: %s", result.Error)
	}
	if result.Reference != "Luke 1:39-45[46-55]" {
		t.Errorf("reference = %q, want the full bracketed string", result.Reference)
	}
	if len(result.Verses) != 7 {
		t.Errorf("got %d main verses, want 7", len(result.Verses))
	}
	if len(result.OptionalVerses) != 10 {
		t.Errorf("got %d optional verses, want 10", len(result.OptionalVerses))
	}
	if result.OptionalVerses[0].Verse != "46" {
		t.Errorf("first optional verse = %q, want 46", result.OptionalVerses[0].Verse)
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		wantError string
	}{
		{
			name:      "empty reference",
			reference: "",
			wantError: "Empty reference",
		},
		{
			name:      "blank reference",
			reference: "   ",
			wantError: "Empty reference",
		},
		{
			name:      "unknown chapter",
			reference: "Ezekiel 1:1",
			wantError: "Could not fetch chapter data",
		},
		{
			name:      "verses absent from chapter",
			reference: "Jeremiah 18:95",
			wantError: "No verses found",
		},
		{
			name:      "malformed cross-chapter",
			reference: "John 3:16-4:",
			wantError: "Invalid cross-chapter reference format",
		},
		{
			name:      "discontinuous without colon",
			reference: "Jeremiah 18, 19",
			wantError: "Invalid reference format",
		},
		{
			name:      "bare book name",
			reference: "Jeremiah",
			wantError: "Invalid reference format",
		},
	}

	parser := testParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.Parse(context.Background(), tt.reference, "asv")

			if result.Parsed {
				t.Fatalf("Parse(%q) unexpectedly succeeded", tt.reference)
			}
			if !strings.Contains(result.Error, tt.wantError) {
				t.Errorf("error = %q, want it to contain %q", result.Error, tt.wantError)
			}
			wantPlaceholder := "[Reading: " + tt.reference + "]"
			if result.FormattedText != wantPlaceholder {
				t.Errorf("formatted text = %q, want %q", result.FormattedText, wantPlaceholder)
			}
			if len(result.Verses) != 0 {
				t.Errorf("failure result carries %d verses", len(result.Verses))
			}
		})
	}
}

func TestParseDiscontinuousSkipsUnavailableSegment(t *testing.T) {
	parser := testParser()
	result := parser.Parse(context.Background(), "Psalm 139:1-5, Nowhere 99:1-2", "asv")

	if !result.Parsed {
		t.Fatalf("Parse failed: %s", result.Error)
	}
	if len(result.Verses) != 5 {
		t.Errorf("got %d verses, want 5 (unavailable segment skipped)", len(result.Verses))
	}
}

func TestParseCancelledContext(t *testing.T) {
	parser := testParser()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := parser.Parse(ctx, "Jeremiah 18:5", "asv")
	if result.Parsed {
		t.Fatal("Parse succeeded despite cancelled context")
	}
	if !strings.Contains(result.Error, "Could not fetch chapter data") {
		t.Errorf("error = %q, want chapter-fetch failure", result.Error)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	parser := testParser()
	first := parser.Parse(context.Background(), "Psalm 139:1-5, 12-17", "asv")
	second := parser.Parse(context.Background(), "Psalm 139:1-5, 12-17", "asv")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeat parse differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestParseDefaultVersionAndChapter(t *testing.T) {
	parser := testParser()

	// Empty version falls back to the parser default.
	result := parser.Parse(context.Background(), "Jeremiah 18:5", "")
	if !result.Parsed {
		t.Fatalf("Parse failed: %s", result.Error)
	}

	// A book with no chapter number before the colon defaults to chapter 1.
	result = parser.Parse(context.Background(), "Philemon:4-6", "asv")
	if !result.Parsed {
		t.Fatalf("Parse failed: %s", result.Error)
	}
	if result.Chapter != "1" {
		t.Errorf("chapter = %q, want 1", result.Chapter)
	}
	if len(result.Verses) != 3 {
		t.Errorf("got %d verses, want 3", len(result.Verses))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		reference string
		want      refShape
	}{
		{"John 3:16", shapeSimple},
		{"Psalm 146", shapeSimple},
		{"Psalm 139:1-5, 12-17", shapeDiscontinuous},
		{"John 3:16-4:1", shapeCrossChapter},
		{"Luke 1:39-45[46-55]", shapeOptional},
		{"Mark 2:4 (6-10)", shapeComplex},
		// Brackets win over commas, commas over cross-chapter.
		{"Luke 1:39-45, 56[46-55]", shapeOptional},
		{"John 3:16-4:1, 5:1-2", shapeDiscontinuous},
	}

	for _, tt := range tests {
		if got := classify(tt.reference); got != tt.want {
			t.Errorf("classify(%q) = %d, want %d", tt.reference, got, tt.want)
		}
	}
}
