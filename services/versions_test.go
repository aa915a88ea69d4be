package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeVersionFile(t *testing.T, dir, key string, file versionFile) {
	t.Helper()
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, key+".json"), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func testVersionStore(t *testing.T) *VersionStore {
	t.Helper()
	dir := t.TempDir()

	file := versionFile{
		Metadata: VersionMeta{
			Name:      "American Standard Version",
			Shortname: "ASV",
			Module:    "asv",
			Lang:      "en",
		},
	}
	for verse := 1; verse <= 5; verse++ {
		file.Verses = append(file.Verses, verseRecord{
			BookName: "Genesis", Chapter: 1, Verse: verse,
			Text: "Genesis text.",
		})
	}
	file.Verses = append(file.Verses,
		verseRecord{BookName: "Daniël", Chapter: 3, Verse: 1, Text: "Daniel text."},
	)
	writeVersionFile(t, dir, "asv", file)

	// A second translation, and one broken file that must be skipped.
	writeVersionFile(t, dir, "statenvertaling", versionFile{
		Metadata: VersionMeta{Name: "Statenvertaling", Module: "statenvertaling", Lang: "nl"},
		Verses: []verseRecord{
			{BookName: "Genesis", Chapter: 1, Verse: 1, Text: "In den beginne."},
		},
	})
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	return LoadVersions(dir)
}

func TestLoadVersions(t *testing.T) {
	store := testVersionStore(t)

	if got := len(store.Versions()); got != 2 {
		t.Fatalf("loaded %d versions, want 2 (broken file skipped)", got)
	}

	books, ok := store.Books("asv")
	if !ok || len(books) != 2 {
		t.Errorf("Books(asv) = %v, %v; want 2 books", books, ok)
	}
	chapters, ok := store.Chapters("asv", "Genesis")
	if !ok || len(chapters) != 1 {
		t.Errorf("Chapters(asv, Genesis) = %v, %v; want 1 chapter", chapters, ok)
	}
	if text, ok := store.Verse("asv", "Genesis", "1", "3"); !ok || text != "Genesis text." {
		t.Errorf("Verse(asv, Genesis, 1, 3) = %q, %v", text, ok)
	}
}

func TestLoadVersionsMissingDir(t *testing.T) {
	store := LoadVersions(filepath.Join(t.TempDir(), "nope"))
	if got := len(store.Versions()); got != 0 {
		t.Errorf("missing dir loaded %d versions, want 0", got)
	}
}

func TestResolveKey(t *testing.T) {
	store := testVersionStore(t)

	tests := []struct {
		name    string
		version string
		wantKey string
		wantOK  bool
	}{
		{"file key", "asv", "asv", true},
		{"shortname case-insensitive", "Asv", "asv", true},
		{"full name", "american standard version", "asv", true},
		{"second translation by module", "STATENVERTALING", "statenvertaling", true},
		{"unknown", "kjv", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := store.ResolveKey(tt.version)
			if key != tt.wantKey || ok != tt.wantOK {
				t.Errorf("ResolveKey(%q) = %q, %v; want %q, %v",
					tt.version, key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestNormalizeBook(t *testing.T) {
	store := testVersionStore(t)

	tests := []struct {
		name   string
		book   string
		want   string
		wantOK bool
	}{
		{"exact", "Genesis", "Genesis", true},
		{"case folded", "genesis", "Genesis", true},
		{"diaeresis folded", "Daniel", "Daniël", true},
		{"unknown", "Hezekiah", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := store.NormalizeBook("asv", tt.book)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeBook(asv, %q) = %q, %v; want %q, %v",
					tt.book, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFetchChapter(t *testing.T) {
	store := testVersionStore(t)
	ctx := context.Background()

	verses, ok := store.FetchChapter(ctx, "genesis", "1", "ASV")
	if !ok || len(verses) != 5 {
		t.Fatalf("FetchChapter = %d verses, %v; want 5, true", len(verses), ok)
	}

	if _, ok := store.FetchChapter(ctx, "Genesis", "99", "asv"); ok {
		t.Error("unknown chapter reported present")
	}
	if _, ok := store.FetchChapter(ctx, "Hezekiah", "1", "asv"); ok {
		t.Error("unknown book reported present")
	}
	if _, ok := store.FetchChapter(ctx, "Genesis", "1", "kjv"); ok {
		t.Error("unknown version reported present")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, ok := store.FetchChapter(cancelled, "Genesis", "1", "asv"); ok {
		t.Error("cancelled context reported present")
	}
}
