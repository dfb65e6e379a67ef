package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const championJSON = `{
	"data": {
		"Riven": {"key": "92", "name": "Riven", "title": "the Exile", "tags": ["Fighter", "Assassin"]},
		"Ahri": {"key": "103", "name": "Ahri", "title": "the Nine-Tailed Fox", "tags": ["Mage"]},
		"Broken": {"key": "not-a-number", "name": "Broken", "title": "", "tags": []}
	}
}`

func writeChampionFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "champion.json")
	if err := os.WriteFile(path, []byte(championJSON), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	cat, err := LoadFile(writeChampionFile(t))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// The entry with a non-numeric key is skipped.
	if cat.Size() != 2 {
		t.Errorf("expected 2 champions, got %d", cat.Size())
	}

	riven, ok := cat.ByID(92)
	if !ok {
		t.Fatal("Riven not found by id 92")
	}
	if riven.Name != "Riven" || riven.Title != "the Exile" {
		t.Errorf("unexpected champion: %+v", riven)
	}
	if len(riven.Tags) != 2 || riven.Tags[0] != "Fighter" {
		t.Errorf("tags not preserved: %v", riven.Tags)
	}
}

func TestByIDMiss(t *testing.T) {
	cat, err := LoadFile(writeChampionFile(t))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, ok := cat.ByID(9999); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "champion.json")
	if err := os.WriteFile(path, []byte(`{"data": `), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected an error for malformed json")
	}
}
