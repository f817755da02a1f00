package tags

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleTags = `{
  "2025-11-18 10-29-29.mov": {
    "path": "/events/Second Room/2025-11-18 10-29-29.mov",
    "presenter-quadrant": "top-left",
    "slides-quadrant": "bottom-right"
  },
  "2025-11-18 14-02-11.mov": {
    "path": "/events/Main Hall/2025-11-18 14-02-11.mov",
    "presenter-quadrant": "top-right",
    "slides-quadrant": "bottom-left"
  },
  "2025-11-19 09-15-40.mov": {
    "path": "/events/Second Room/2025-11-19 09-15-40.mov",
    "presenter-quadrant": "top-left",
    "slides-quadrant": "bottom-right"
  }
}`

func writeTags(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quadrant-tags.json")
	if err := os.WriteFile(path, []byte(sampleTags), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndLookup(t *testing.T) {
	store, err := Load(writeTags(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("Len: got %d, want 3", store.Len())
	}

	entry, ok := store.Lookup("2025-11-18 10-29-29.mov")
	if !ok {
		t.Fatal("Lookup failed for tagged video")
	}
	if entry.PresenterQuadrant != "top-left" {
		t.Errorf("presenter quadrant: got %q", entry.PresenterQuadrant)
	}

	if _, ok := store.Lookup("missing.mov"); ok {
		t.Error("Lookup should miss for untagged video")
	}
}

func TestReferencesFiltersByMarker(t *testing.T) {
	store, err := Load(writeTags(t))
	if err != nil {
		t.Fatal(err)
	}

	refs := store.References("Second Room")
	want := []string{"2025-11-18 10-29-29.mov", "2025-11-19 09-15-40.mov"}
	if len(refs) != len(want) {
		t.Fatalf("references: got %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("reference %d: got %q, want %q", i, refs[i], want[i])
		}
	}

	if all := store.References(""); len(all) != 3 {
		t.Errorf("empty marker should select all, got %v", all)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
