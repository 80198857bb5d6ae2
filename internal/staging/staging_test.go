package staging

import (
	"os"
	"path/filepath"
	"testing"

	"vidvault/internal/ledger"
	"vidvault/internal/testsupport"
)

func TestPrepareBatchesPartitions(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPartSize(2))
	for _, name := range []string{"c.mp4", "a.mp4", "b.mp4"} {
		testsupport.WriteFile(t, filepath.Join(cfg.TriagedDir(), name), []byte(name))
	}

	if err := PrepareBatches(cfg, nil); err != nil {
		t.Fatalf("PrepareBatches failed: %v", err)
	}

	part0 := filepath.Join(cfg.TaggingDir(), "part-0")
	part1 := filepath.Join(cfg.TaggingDir(), "part-1")

	// Files are staged in name order: a and b first, then c.
	for _, want := range []string{"a.mp4", "b.mp4"} {
		if _, err := os.Stat(filepath.Join(part0, want)); err != nil {
			t.Errorf("expected %s in part-0: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(part1, "c.mp4")); err != nil {
		t.Errorf("expected c.mp4 in part-1: %v", err)
	}

	// Triage dir is drained.
	remaining, err := os.ReadDir(cfg.TriagedDir())
	if err != nil {
		t.Fatalf("read triaged dir: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("triaged dir should be empty, has %d entries", len(remaining))
	}
}

func TestPrepareBatchesWritesSkeletonTags(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPartSize(10))
	testsupport.WriteFile(t, filepath.Join(cfg.TriagedDir(), "clip.mp4"), []byte("x"))

	if err := PrepareBatches(cfg, nil); err != nil {
		t.Fatalf("PrepareBatches failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.TaggingDir(), "part-0", "tags.txt"))
	if err != nil {
		t.Fatalf("read skeleton tags: %v", err)
	}
	skeleton, err := ledger.Parse(string(data))
	if err != nil {
		t.Fatalf("skeleton must parse: %v", err)
	}
	if len(skeleton.Entries) != 1 || skeleton.Entries[0].Name != "clip.mp4" {
		t.Errorf("unexpected skeleton: %#v", skeleton.Entries)
	}
	if !skeleton.Entries[0].Untagged() {
		t.Error("skeleton entries must be untagged")
	}
}

func TestPrepareBatchesSkipsOccupiedParts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPartSize(1))
	// part-0 already exists from a previous run.
	testsupport.WriteFile(t, filepath.Join(cfg.TaggingDir(), "part-0", "tags.txt"), []byte("[old.mp4]\n"))
	testsupport.WriteFile(t, filepath.Join(cfg.TriagedDir(), "new.mp4"), []byte("x"))

	if err := PrepareBatches(cfg, nil); err != nil {
		t.Fatalf("PrepareBatches failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.TaggingDir(), "part-1", "new.mp4")); err != nil {
		t.Errorf("new batch should land in part-1: %v", err)
	}
}

func TestPrepareBatchesNothingToDo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := PrepareBatches(cfg, nil); err != nil {
		t.Fatalf("PrepareBatches with empty triage dir failed: %v", err)
	}
}
