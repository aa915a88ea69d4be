// cmd/text-importer converts a plain-text Bible into the version JSON the
// server loads from its data directory.
//
// The input format is line-oriented: a line matching a known book title
// starts a book, a line holding only a number starts a chapter, a line
// starting with "N " starts verse N, and any other non-empty line continues
// the current verse.
//
// Usage: text-importer <input.txt> <output.json> [version-name]
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

type verseRow struct {
	BookName string `json:"book_name"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

type versionFile struct {
	Metadata map[string]string `json:"metadata"`
	Verses   []verseRow        `json:"verses"`
}

// Book titles as they appear in the source text, exact spelling.
var bookTitles = []string{
	"Genesis", "Éxodus", "Leviticus", "Numeri", "Deuteronomium",
	"Jozua", "Richteren", "1 Samuël", "2 Samuël", "1 Koningen", "2 Koningen",
	"Jesaja", "Jeremia", "Ezechiël", "Hoséa", "Joël", "Amos", "Obadja", "Jona",
	"Micha", "Nahum", "Habakuk", "Zefanja", "Haggaï", "Zacharia", "Maleachi",
	"Psalmen", "Spreuken", "Job", "Hooglied", "Ruth", "Klaagliederen", "Prediker",
	"Esther", "Daniël", "Ezra", "Nehemia", "1 Kronieken", "2 Kronieken",
	"Matthéüs", "Markus", "Lukas", "Johannes", "Handelingen", "Romeinen",
	"1 Korinthe", "2 Korinthe", "Galaten", "Éfeze", "Filippenzen", "Kolossenzen",
	"1 Thessalonicenzen", "2 Thessalonicenzen", "1 Timótheüs", "2 Timótheüs",
	"Titus", "Filémon", "Hebreën", "Jakobus", "1 Petrus", "2 Petrus",
	"1 Johannes", "2 Johannes", "3 Johannes", "Judas", "Openbaring",
}

var chapterRe = regexp.MustCompile(`^\d+$`)
var verseRe = regexp.MustCompile(`^(\d+)\s+(.*)$`)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: text-importer <input.txt> <output.json> [version-name]")
		os.Exit(2)
	}
	inPath, outPath := os.Args[1], os.Args[2]

	versionName := strings.TrimSuffix(filepath.Base(outPath), ".json")
	if len(os.Args) > 3 {
		versionName = os.Args[3]
	}

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Println("error: cannot open input:", err)
		os.Exit(1)
	}
	defer in.Close()

	titles := make(map[string]bool, len(bookTitles))
	for _, t := range bookTitles {
		titles[t] = true
	}

	var (
		verses  []verseRow
		book    string
		chapter int
		verse   int
		buffer  []string
	)

	save := func() {
		if book == "" || chapter == 0 || verse == 0 || len(buffer) == 0 {
			return
		}
		verses = append(verses, verseRow{
			BookName: book,
			Chapter:  chapter,
			Verse:    verse,
			Text:     strings.TrimSpace(strings.Join(buffer, " ")),
		})
		buffer = nil
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if titles[line] {
			save()
			book = line
			chapter = 0
			verse = 0
			buffer = nil
			continue
		}

		if chapterRe.MatchString(line) {
			save()
			chapter, _ = strconv.Atoi(line)
			verse = 0
			buffer = nil
			continue
		}

		if m := verseRe.FindStringSubmatch(line); m != nil {
			save()
			verse, _ = strconv.Atoi(m[1])
			buffer = []string{m[2]}
			continue
		}

		// Continuation of a multi-line verse
		if verse != 0 {
			buffer = append(buffer, line)
		}
	}
	save()

	if err := sc.Err(); err != nil {
		fmt.Println("error: scan failed:", err)
		os.Exit(1)
	}

	out := versionFile{
		Metadata: map[string]string{"name": versionName, "module": versionName},
		Verses:   verses,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println("error: marshal failed:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		fmt.Println("error: write failed:", err)
		os.Exit(1)
	}

	fmt.Printf("✅ wrote %s (%d verses)\n", outPath, len(verses))
}
