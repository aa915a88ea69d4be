package services

import (
	"os"
	"path/filepath"
	"testing"
)

const mhcJSON = `{
	"meta": {"id": "mhc", "name": "Matthew Henry's Concise Commentary"},
	"books": {
		"Genesis": {
			"id": "GEN",
			"chapters": {"1": {"1": "Commentary on the creation."}}
		}
	}
}`

func testCommentaryStore(t *testing.T) *CommentaryStore {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "matthew-henry.json"), []byte(mhcJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	// No meta.id: keyed by filename instead.
	if err := os.WriteFile(filepath.Join(dir, "anonymous.json"), []byte(`{"books": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return LoadCommentaries(dir)
}

func TestLoadCommentaries(t *testing.T) {
	store := testCommentaryStore(t)

	if _, ok := store.Get("mhc"); !ok {
		t.Error("commentary with meta.id not keyed by id")
	}
	if _, ok := store.Get("anonymous"); !ok {
		t.Error("commentary without meta.id not keyed by filename")
	}
	if _, ok := store.Get("matthew-henry"); ok {
		t.Error("commentary with meta.id should not also be keyed by filename")
	}
}

func TestCommentaryNormalizeBook(t *testing.T) {
	store := testCommentaryStore(t)

	tests := []struct {
		name   string
		book   string
		want   string
		wantOK bool
	}{
		{"exact", "Genesis", "Genesis", true},
		{"case folded", "genesis", "Genesis", true},
		{"book id fallback", "gen", "Genesis", true},
		{"unknown", "Hezekiah", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := store.NormalizeBook("mhc", tt.book)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeBook(mhc, %q) = %q, %v; want %q, %v",
					tt.book, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCommentaryChapter(t *testing.T) {
	store := testCommentaryStore(t)

	verses, ok := store.Chapter("mhc", "Genesis", "1")
	if !ok || verses["1"] != "Commentary on the creation." {
		t.Errorf("Chapter(mhc, Genesis, 1) = %v, %v", verses, ok)
	}
	if _, ok := store.Chapter("mhc", "Genesis", "99"); ok {
		t.Error("unknown chapter reported present")
	}
	if _, ok := store.Chapter("nope", "Genesis", "1"); ok {
		t.Error("unknown source reported present")
	}
}
