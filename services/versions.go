// services/versions.go - Bible translation store
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// VersionMeta describes one translation file.
type VersionMeta struct {
	Name        string `json:"name"`
	Shortname   string `json:"shortname"`
	Module      string `json:"module"`
	Lang        string `json:"lang"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

// Version holds one loaded translation: book -> chapter -> verse -> text.
type Version struct {
	Key  string
	Meta VersionMeta
	Data map[string]map[string]map[string]string
}

// versionFile is the on-disk shape: a flat verse array plus metadata, as
// produced by cmd/text-importer.
type versionFile struct {
	Metadata VersionMeta   `json:"metadata"`
	Verses   []verseRecord `json:"verses"`
}

type verseRecord struct {
	BookName string `json:"book_name"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

// VersionStore keeps every loaded translation. It is read-only after
// LoadVersions, so concurrent reads need no locking.
type VersionStore struct {
	versions map[string]*Version
}

// LoadVersions reads every *.json translation in dir. Files that fail to
// load are logged and skipped; a missing directory yields an empty store.
func LoadVersions(dir string) *VersionStore {
	store := &VersionStore{versions: make(map[string]*Version)}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Versions dir '%s' not found.", dir)
		return store
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		log.Printf("Failed to read versions dir '%s': %v", dir, err)
		return store
	}

	for _, file := range files {
		version, err := loadVersionFile(file)
		if err != nil {
			log.Printf("Failed to load version file %s: %v", file, err)
			continue
		}
		store.versions[version.Key] = version
		log.Printf("Loaded version '%s' (%d books)", version.Key, len(version.Data))
	}

	return store
}

func loadVersionFile(path string) (*Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw versionFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid version JSON: %w", err)
	}

	structured := make(map[string]map[string]map[string]string)
	for _, v := range raw.Verses {
		if v.BookName == "" {
			continue
		}
		chapter := strconv.Itoa(v.Chapter)
		verse := strconv.Itoa(v.Verse)

		book, ok := structured[v.BookName]
		if !ok {
			book = make(map[string]map[string]string)
			structured[v.BookName] = book
		}
		ch, ok := book[chapter]
		if !ok {
			ch = make(map[string]string)
			book[chapter] = ch
		}
		ch[verse] = v.Text
	}

	key := strings.TrimSuffix(filepath.Base(path), ".json")
	return &Version{Key: key, Meta: raw.Metadata, Data: structured}, nil
}

// ResolveKey matches a requested version against file key, shortname, module
// or full name, case-insensitively.
func (s *VersionStore) ResolveKey(version string) (string, bool) {
	version = strings.ToLower(version)
	for key, v := range s.versions {
		if strings.ToLower(key) == version ||
			strings.ToLower(v.Meta.Shortname) == version ||
			strings.ToLower(v.Meta.Module) == version ||
			strings.ToLower(v.Meta.Name) == version {
			return key, true
		}
	}
	return "", false
}

// foldBookName lowers the name and folds the diaeresis forms the Dutch
// translations use, so 'Israël' matches 'israel'.
func foldBookName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "ë", "e")
	name = strings.ReplaceAll(name, "é", "e")
	name = strings.ReplaceAll(name, "ü", "u")
	name = strings.ReplaceAll(name, "ï", "i")
	return name
}

// NormalizeBook resolves a requested book to the stored book key.
func (s *VersionStore) NormalizeBook(versionKey, book string) (string, bool) {
	v, ok := s.versions[versionKey]
	if !ok {
		return "", false
	}
	want := foldBookName(book)
	for name := range v.Data {
		if foldBookName(name) == want {
			return name, true
		}
	}
	return "", false
}

// Versions lists the loaded translations.
func (s *VersionStore) Versions() []*Version {
	out := make([]*Version, 0, len(s.versions))
	for _, v := range s.versions {
		out = append(out, v)
	}
	return out
}

// Books returns the book names of a version.
func (s *VersionStore) Books(versionKey string) ([]string, bool) {
	v, ok := s.versions[versionKey]
	if !ok {
		return nil, false
	}
	books := make([]string, 0, len(v.Data))
	for name := range v.Data {
		books = append(books, name)
	}
	return books, true
}

// Chapters returns the chapter keys of a book.
func (s *VersionStore) Chapters(versionKey, book string) ([]string, bool) {
	v, ok := s.versions[versionKey]
	if !ok {
		return nil, false
	}
	chapters, ok := v.Data[book]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(chapters))
	for ch := range chapters {
		out = append(out, ch)
	}
	return out, true
}

// Chapter returns the verse map of one chapter.
func (s *VersionStore) Chapter(versionKey, book, chapter string) (map[string]string, bool) {
	v, ok := s.versions[versionKey]
	if !ok {
		return nil, false
	}
	chapters, ok := v.Data[book]
	if !ok {
		return nil, false
	}
	verses, ok := chapters[chapter]
	return verses, ok
}

// Verse returns a single verse text.
func (s *VersionStore) Verse(versionKey, book, chapter, verse string) (string, bool) {
	verses, ok := s.Chapter(versionKey, book, chapter)
	if !ok {
		return "", false
	}
	text, ok := verses[verse]
	return text, ok
}

// Data exposes the structured data of a version, read-only by convention.
func (s *VersionStore) Data(versionKey string) (map[string]map[string]map[string]string, bool) {
	v, ok := s.versions[versionKey]
	if !ok {
		return nil, false
	}
	return v.Data, true
}

// FetchChapter implements the parser's ChapterSource port. Unknown version,
// book or chapter reports absence; a cancelled context does too, so the
// resolver's skip-vs-fail policy applies uniformly.
func (s *VersionStore) FetchChapter(ctx context.Context, book, chapter, version string) (map[string]string, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	key, ok := s.ResolveKey(version)
	if !ok {
		return nil, false
	}
	bookKey, ok := s.NormalizeBook(key, book)
	if !ok {
		return nil, false
	}
	verses, ok := s.Chapter(key, bookKey, chapter)
	if !ok || len(verses) == 0 {
		return nil, false
	}
	return verses, true
}
