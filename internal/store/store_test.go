package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sakuga-tools/retimer/internal/analysis"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "retimer.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id string) *analysis.Result {
	return &analysis.Result{
		ID:         id,
		SourcePath: "/videos/take1.mp4",
		OutputPath: "/videos/take1_retimed.mp4",
		CreatedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Params:     analysis.DefaultParams(),
		Frames: []analysis.FrameRecord{
			{Index: 0, Timestamp: 0, Intensity: 0.0, Smoothed: 0.0, State: "LOW", TimingMultiplier: 1},
			{Index: 1, Timestamp: 1.0 / 30, Intensity: 0.7, Smoothed: 0.49, State: "MID", TimingMultiplier: 3, Tame: true},
			{Index: 2, Timestamp: 2.0 / 30, Intensity: 0.9, Smoothed: 0.77, State: "HIGH", TimingMultiplier: 2, Tsume: true},
		},
	}
}

func TestSaveAndGetResult(t *testing.T) {
	s := openTestStore(t)

	want := sampleResult("run-1")
	if err := s.SaveResult(want); err != nil {
		t.Fatalf("failed to save result: %v", err)
	}

	got, err := s.GetResult("run-1")
	if err != nil {
		t.Fatalf("failed to load result: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-tripped result mismatch (-want +got):\n%s", diff)
	}
}

func TestGetResult_Missing(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetResult("no-such-id"); err == nil {
		t.Error("expected error for missing analysis id")
	}
}

func TestSaveResult_DuplicateID(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveResult(sampleResult("dup")); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := s.SaveResult(sampleResult("dup")); err == nil {
		t.Error("expected error saving a duplicate analysis id")
	}
}

func TestListResults(t *testing.T) {
	s := openTestStore(t)

	older := sampleResult("older")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleResult("newer")
	newer.CreatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, res := range []*analysis.Result{older, newer} {
		if err := s.SaveResult(res); err != nil {
			t.Fatalf("failed to save %s: %v", res.ID, err)
		}
	}

	summaries, err := s.ListResults(10)
	if err != nil {
		t.Fatalf("failed to list results: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "newer" || summaries[1].ID != "older" {
		t.Errorf("summaries should be newest first, got %s then %s", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].FrameCount != 3 {
		t.Errorf("frame count = %d, want 3", summaries[0].FrameCount)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retimer.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.SaveResult(sampleResult("persisted")); err != nil {
		t.Fatalf("failed to save result: %v", err)
	}
	s.Close()

	// Reopening runs migrations again; already-applied versions are a
	// no-op and existing rows survive.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetResult("persisted")
	if err != nil {
		t.Fatalf("failed to load result after reopen: %v", err)
	}
	if len(got.Frames) != 3 {
		t.Errorf("expected 3 frames after reopen, got %d", len(got.Frames))
	}
}
