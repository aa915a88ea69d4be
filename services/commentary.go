// services/commentary.go - Commentary store (Matthew Henry, etc.)
package services

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CommentaryBook holds per-book commentary: chapter -> verse -> text.
type CommentaryBook struct {
	ID       string                       `json:"id"`
	Chapters map[string]map[string]string `json:"chapters"`
}

// Commentary is one loaded commentary source.
type Commentary struct {
	Meta struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"meta"`
	Books map[string]CommentaryBook `json:"books"`
}

// CommentaryStore keeps every loaded commentary, keyed by meta.id or the
// filename when the file carries no id. Read-only after load.
type CommentaryStore struct {
	commentaries map[string]*Commentary
}

// LoadCommentaries reads every *.json commentary in dir.
func LoadCommentaries(dir string) *CommentaryStore {
	store := &CommentaryStore{commentaries: make(map[string]*Commentary)}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("Commentaries dir '%s' not found.", dir)
		return store
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		log.Printf("Failed to read commentaries dir '%s': %v", dir, err)
		return store
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Printf("Failed to read commentary file %s: %v", file, err)
			continue
		}

		var c Commentary
		if err := json.Unmarshal(data, &c); err != nil {
			log.Printf("Failed to parse commentary file %s: %v", file, err)
			continue
		}

		key := c.Meta.ID
		if key == "" {
			key = strings.TrimSuffix(filepath.Base(file), ".json")
		}
		store.commentaries[key] = &c
		log.Printf("Loaded commentary '%s' from %s", key, file)
	}

	return store
}

// Get returns a commentary source by key.
func (s *CommentaryStore) Get(source string) (*Commentary, bool) {
	c, ok := s.commentaries[source]
	return c, ok
}

// NormalizeBook matches a requested book against the stored book names
// (case-insensitive, diaeresis-tolerant) with a fallback on each book's id.
func (s *CommentaryStore) NormalizeBook(source, book string) (string, bool) {
	c, ok := s.commentaries[source]
	if !ok {
		return "", false
	}

	want := foldBookName(book)
	for name := range c.Books {
		if foldBookName(name) == want {
			return name, true
		}
	}
	for name, info := range c.Books {
		if strings.EqualFold(info.ID, book) {
			return name, true
		}
	}
	return "", false
}

// Chapter returns the verse->text commentary for one chapter.
func (s *CommentaryStore) Chapter(source, book, chapter string) (map[string]string, bool) {
	c, ok := s.commentaries[source]
	if !ok {
		return nil, false
	}
	b, ok := c.Books[book]
	if !ok {
		return nil, false
	}
	verses, ok := b.Chapters[chapter]
	return verses, ok
}
