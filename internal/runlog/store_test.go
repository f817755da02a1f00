package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runlog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{RunID: "run-1", Reference: "a.mp4", Candidate: "a.wav", Method: "waveform", Score: 0.82, OffsetSeconds: 1.5, Status: "synced"},
		{RunID: "run-1", Reference: "b.mp4", Method: "waveform", Status: "skipped", Detail: "no candidate above threshold"},
	}
	for _, entry := range entries {
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("entry count: got %d, want 2", len(recent))
	}
	if recent[0].Reference != "b.mp4" {
		t.Errorf("newest first: got %q, want b.mp4", recent[0].Reference)
	}
	if recent[0].Candidate != "" {
		t.Errorf("skipped entry should have no candidate, got %q", recent[0].Candidate)
	}
	if recent[0].Detail != "no candidate above threshold" {
		t.Errorf("detail: got %q", recent[0].Detail)
	}
	if recent[1].Score != 0.82 || recent[1].OffsetSeconds != 1.5 {
		t.Errorf("numeric fields: got score %v offset %v", recent[1].Score, recent[1].OffsetSeconds)
	}
	if recent[1].CreatedAt.IsZero() {
		t.Error("created_at should default to now")
	}
}

func TestByReferenceAndByRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seed := []Entry{
		{RunID: "run-1", Reference: "a.mp4", Method: "waveform", Status: "failed"},
		{RunID: "run-2", Reference: "a.mp4", Candidate: "a.wav", Method: "transcript", Score: 0.6, Status: "synced"},
		{RunID: "run-2", Reference: "b.mp4", Method: "transcript", Status: "skipped"},
	}
	for _, entry := range seed {
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	byRef, err := store.ByReference(ctx, "a.mp4")
	if err != nil {
		t.Fatalf("ByReference failed: %v", err)
	}
	if len(byRef) != 2 {
		t.Fatalf("reference history: got %d entries, want 2", len(byRef))
	}
	if byRef[0].RunID != "run-2" {
		t.Errorf("most recent first: got run %q", byRef[0].RunID)
	}

	byRun, err := store.ByRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("ByRun failed: %v", err)
	}
	if len(byRun) != 2 {
		t.Fatalf("run entries: got %d, want 2", len(byRun))
	}
	if byRun[0].Reference != "a.mp4" || byRun[1].Reference != "b.mp4" {
		t.Errorf("insert order: got %q then %q", byRun[0].Reference, byRun[1].Reference)
	}
}

func TestOpenPreservesExistingData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runlog.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := store.Record(context.Background(), Entry{
		RunID: "run-1", Reference: "a.mp4", Method: "waveform", Status: "synced", CreatedAt: created,
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	entries, err := reopened.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entry count after reopen: got %d, want 1", len(entries))
	}
	if !entries[0].CreatedAt.Equal(created) {
		t.Errorf("created_at: got %v, want %v", entries[0].CreatedAt, created)
	}
}
