// handlers/bible.go - Bible text endpoints
package handlers

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"scriptura/parsing"
	"scriptura/services"

	"github.com/gofiber/fiber/v2"
)

var (
	store        *services.VersionStore
	commentaries *services.CommentaryStore
	parser       *parsing.Parser
	formatter    *parsing.VerseFormatter
)

// Init wires the loaded stores into the handlers and builds the parser on
// top of the version store's ChapterSource implementation.
func Init(s *services.VersionStore, c *services.CommentaryStore) {
	store = s
	commentaries = c
	parser = parsing.NewParser(s, parsing.NewBookNormalizer(), defaultParseVersion())
	formatter = parsing.NewVerseFormatter()
}

func defaultBibleVersion() string {
	if v := os.Getenv("DEFAULT_VERSION"); v != "" {
		return v
	}
	return "statenvertaling"
}

func defaultParseVersion() string {
	if v := os.Getenv("DEFAULT_PARSE_VERSION"); v != "" {
		return v
	}
	return "asv"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pick selects a key through the given Intn so callers choose between the
// concurrency-safe top-level rand and a seeded per-request source.
func pick[V any](intn func(int) int, m map[string]V) string {
	keys := sortedKeys(m)
	return keys[intn(len(keys))]
}

// resolveVersion maps the version query parameter to a loaded version key.
func resolveVersion(c *fiber.Ctx) (string, error) {
	key, ok := store.ResolveKey(c.Query("version", defaultBibleVersion()))
	if !ok {
		return "", fiber.NewError(404, "Translation not found")
	}
	return key, nil
}

// GetRandom returns a random verse from the requested translation.
func GetRandom(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	data, _ := store.Data(key)
	if len(data) == 0 {
		return fiber.NewError(404, "Translation is empty")
	}

	book := pick(rand.Intn, data)
	chapter := pick(rand.Intn, data[book])
	verse := pick(rand.Intn, data[book][chapter])

	return c.JSON(fiber.Map{
		"version": key,
		"book":    book,
		"chapter": chapter,
		"verse":   verse,
		"text":    data[book][chapter][verse],
	})
}

// GetVerse returns a single verse.
func GetVerse(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	bookKey, ok := store.NormalizeBook(key, c.Query("book"))
	if !ok {
		return fiber.NewError(404, "Book not found")
	}

	text, ok := store.Verse(key, bookKey, c.Query("chapter"), c.Query("verse"))
	if !ok {
		return fiber.NewError(404, "Verse not found")
	}

	return c.JSON(fiber.Map{
		"version": key,
		"book":    bookKey,
		"chapter": c.Query("chapter"),
		"verse":   c.Query("verse"),
		"text":    text,
	})
}

// GetPassage returns the verses from start through end of one chapter.
func GetPassage(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	bookKey, ok := store.NormalizeBook(key, c.Query("book"))
	if !ok {
		return fiber.NewError(404, "Book not found")
	}

	chapter := c.Query("chapter")
	start := c.QueryInt("start")
	end := c.QueryInt("end")

	chapterData, ok := store.Chapter(key, bookKey, chapter)
	if !ok {
		return fiber.NewError(404, "Passage not found")
	}

	verses := parsing.ExtractRange(chapterData, start, end)
	if len(verses) == 0 {
		return fiber.NewError(404, "Passage not found")
	}

	return c.JSON(fiber.Map{
		"version": key,
		"book":    bookKey,
		"chapter": chapter,
		"verses":  verses,
	})
}

// GetBooks lists the book names of a translation.
func GetBooks(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	data, _ := store.Data(key)
	return c.JSON(sortedKeys(data))
}

// GetChapters lists the chapter keys of a book.
func GetChapters(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	bookKey, ok := store.NormalizeBook(key, c.Query("book"))
	if !ok {
		return fiber.NewError(404, "Book not found")
	}
	chapters, _ := store.Chapters(key, bookKey)
	sort.Strings(chapters)
	return c.JSON(chapters)
}

// GetVerseNumbers lists the verse keys of a chapter.
func GetVerseNumbers(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	bookKey, ok := store.NormalizeBook(key, c.Query("book"))
	if !ok {
		return fiber.NewError(404, "Book not found")
	}
	verses, ok := store.Chapter(key, bookKey, c.Query("chapter"))
	if !ok {
		return fiber.NewError(404, "Chapter not found")
	}
	return c.JSON(sortedKeys(verses))
}

// GetChapter returns the full verse map of one chapter.
func GetChapter(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	bookKey, ok := store.NormalizeBook(key, c.Query("book"))
	if !ok {
		return fiber.NewError(404, "Book not found")
	}
	chapter := c.Query("chapter")
	verses, ok := store.Chapter(key, bookKey, chapter)
	if !ok {
		return fiber.NewError(404, "Chapter not found")
	}
	return c.JSON(fiber.Map{
		"version": key,
		"book":    bookKey,
		"chapter": chapter,
		"verses":  verses,
	})
}

type searchResult struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   string `json:"verse"`
	Text    string `json:"text"`
}

// Search scans every verse of a translation for a case-insensitive substring.
func Search(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return fiber.NewError(422, "Query parameter 'query' is required")
	}

	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	data, _ := store.Data(key)

	needle := strings.ToLower(query)
	results := []searchResult{}
	for _, book := range sortedKeys(data) {
		for _, chapter := range sortedKeys(data[book]) {
			for _, verse := range sortedKeys(data[book][chapter]) {
				text := data[book][chapter][verse]
				if strings.Contains(strings.ToLower(text), needle) {
					results = append(results, searchResult{
						Book:    book,
						Chapter: chapter,
						Verse:   verse,
						Text:    text,
					})
				}
			}
		}
	}
	return c.JSON(results)
}

// GetDaytext returns the verse of the day: the pick is a hash of the date
// (or an explicit seed), so every caller sees the same verse all day.
func GetDaytext(c *fiber.Ctx) error {
	key, err := resolveVersion(c)
	if err != nil {
		return err
	}
	data, _ := store.Data(key)
	if len(data) == 0 {
		return fiber.NewError(404, "Translation is empty")
	}

	base := c.Query("seed")
	if base == "" {
		base = time.Now().Format("2006-01-02")
	}
	sum := sha256.Sum256([]byte(base))
	r := rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]))))

	book := pick(r.Intn, data)
	chapter := pick(r.Intn, data[book])
	verse := pick(r.Intn, data[book][chapter])

	return c.JSON(fiber.Map{
		"version": key,
		"book":    book,
		"chapter": chapter,
		"verse":   verse,
		"text":    data[book][chapter][verse],
	})
}

// GetVersions lists metadata for every loaded translation.
func GetVersions(c *fiber.Ctx) error {
	versions := store.Versions()
	out := make([]fiber.Map, 0, len(versions))
	for _, v := range versions {
		name := v.Meta.Name
		if name == "" {
			name = v.Key
		}
		out = append(out, fiber.Map{
			"key":         v.Key,
			"name":        name,
			"shortname":   v.Meta.Shortname,
			"module":      v.Meta.Module,
			"lang":        v.Meta.Lang,
			"year":        v.Meta.Year,
			"description": v.Meta.Description,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["key"].(string) < out[j]["key"].(string)
	})
	return c.JSON(out)
}

// SecureData is the API-key smoke-test endpoint.
func SecureData(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "You are authenticated!"})
}
