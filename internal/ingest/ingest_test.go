package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"vidvault/internal/ledger"
	"vidvault/internal/testsupport"
)

func sha256hex(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// writeBatch creates a part directory with a tags file and the referenced
// video files.
func writeBatch(t *testing.T, taggingDir, part string, entries []ledger.Entry, content map[string][]byte) string {
	t.Helper()

	batchDir := filepath.Join(taggingDir, part)
	batch := &ledger.Ledger{Entries: entries}
	testsupport.WriteFile(t, filepath.Join(batchDir, "tags.txt"), []byte(batch.Serialize()))
	for name, data := range content {
		testsupport.WriteFile(t, filepath.Join(batchDir, name), data)
	}
	return batchDir
}

func TestIngestNewVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	content := []byte("the video bytes")
	batchDir := writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{{Name: "video.mp4", Tags: []string{"2024-01-01", "social"}}},
		map[string][]byte{"video.mp4": content})

	led := &ledger.Ledger{}
	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	canonical := sha256hex(content) + ".mp4"
	if _, err := os.Stat(filepath.Join(cfg.VideosDir(), canonical)); err != nil {
		t.Errorf("video not moved into store: %v", err)
	}
	if len(led.Entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(led.Entries))
	}
	entry := led.Entries[0]
	if entry.Name != canonical {
		t.Errorf("unexpected canonical name %q", entry.Name)
	}
	if !reflect.DeepEqual(entry.Tags, []string{"2024-01-01", "social"}) {
		t.Errorf("unexpected tags %v", entry.Tags)
	}
	if _, err := os.Stat(batchDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("emptied batch directory should be removed, stat err: %v", err)
	}

	// The ledger was persisted.
	persisted, err := ledger.LoadFile(cfg.LedgerPath())
	if err != nil {
		t.Fatalf("load persisted ledger: %v", err)
	}
	if !reflect.DeepEqual(persisted, led) {
		t.Errorf("persisted ledger mismatch:\ngot  %#v\nwant %#v", persisted, led)
	}
}

func TestIngestIdempotentMerge(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	content := []byte("identical bytes")
	led := &ledger.Ledger{}

	writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{{Name: "first.mp4", Tags: []string{"social"}}},
		map[string][]byte{"first.mp4": content})
	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	// Same bytes again, different original name, overlapping tags.
	writeBatch(t, cfg.TaggingDir(), "part-1",
		[]ledger.Entry{{Name: "second.mp4", Tags: []string{"social", "party"}}},
		map[string][]byte{"second.mp4": content})
	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	canonical := sha256hex(content) + ".mp4"
	store, err := os.ReadDir(cfg.VideosDir())
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if len(store) != 1 || store[0].Name() != canonical {
		t.Errorf("store should hold exactly one file named %s", canonical)
	}
	if len(led.Entries) != 1 {
		t.Fatalf("expected a single merged entry, got %d", len(led.Entries))
	}
	want := []string{"social", "party"}
	if !reflect.DeepEqual(led.Entries[0].Tags, want) {
		t.Errorf("tags not unioned: got %v, want %v", led.Entries[0].Tags, want)
	}
}

func TestIngestCollisionWithinOneBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	content := []byte("same in one batch")
	writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{
			{Name: "a.mp4", Tags: []string{"one"}},
			{Name: "b.mp4", Tags: []string{"two"}},
		},
		map[string][]byte{"a.mp4": content, "b.mp4": content})

	led := &ledger.Ledger{}
	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(led.Entries) != 1 {
		t.Fatalf("expected one merged entry, got %d", len(led.Entries))
	}
	if !reflect.DeepEqual(led.Entries[0].Tags, []string{"one", "two"}) {
		t.Errorf("tags not merged: %v", led.Entries[0].Tags)
	}
}

func TestUntaggedEntriesStayPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	batchDir := writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{
			{Name: "tagged.mp4", Tags: []string{"x"}},
			{Name: "untagged.mp4"},
		},
		map[string][]byte{"tagged.mp4": []byte("a"), "untagged.mp4": []byte("b")})

	led := &ledger.Ledger{}
	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(batchDir, "tags.txt"))
	if err != nil {
		t.Fatalf("pending tags file missing: %v", err)
	}
	remaining, err := ledger.Parse(string(data))
	if err != nil {
		t.Fatalf("parse rewritten tags: %v", err)
	}
	if len(remaining.Entries) != 1 || remaining.Entries[0].Name != "untagged.mp4" {
		t.Errorf("expected only the untagged entry to remain, got %#v", remaining.Entries)
	}
	if _, err := os.Stat(filepath.Join(batchDir, "untagged.mp4")); err != nil {
		t.Errorf("untagged video must stay in the batch: %v", err)
	}
}

func TestMissingExtensionFailsEntryNotRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	good := []byte("good bytes")
	writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{
			{Name: "noextension", Tags: []string{"x"}},
			{Name: "good.mp4", Tags: []string{"y"}},
		},
		map[string][]byte{"noextension": []byte("bad"), "good.mp4": good})

	led := &ledger.Ledger{}
	err := NewMerger(cfg, nil).Run(led)
	if !errors.Is(err, ErrMissingExtension) {
		t.Fatalf("expected ErrMissingExtension, got %v", err)
	}

	// The other file was still ingested and the ledger persisted.
	canonical := sha256hex(good) + ".mp4"
	if _, statErr := os.Stat(filepath.Join(cfg.VideosDir(), canonical)); statErr != nil {
		t.Errorf("good file should be ingested despite the failure: %v", statErr)
	}
	persisted, loadErr := ledger.LoadFile(cfg.LedgerPath())
	if loadErr != nil {
		t.Fatalf("load persisted ledger: %v", loadErr)
	}
	if len(persisted.Entries) != 1 || persisted.Entries[0].Name != canonical {
		t.Errorf("partial progress must be persisted, got %#v", persisted.Entries)
	}
}

func TestIngestRestoresMissingStoreFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	content := []byte("cataloged bytes")
	canonical := sha256hex(content) + ".mp4"
	// The ledger knows the video but the store file was deleted by hand.
	led := &ledger.Ledger{Entries: []ledger.Entry{{Name: canonical, Tags: []string{"old"}}}}

	writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{{Name: "again.mp4", Tags: []string{"new"}}},
		map[string][]byte{"again.mp4": content})

	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// No duplicate entry: tags merged into the existing one.
	if len(led.Entries) != 1 {
		t.Fatalf("canonical names must stay unique, got %d entries", len(led.Entries))
	}
	if !reflect.DeepEqual(led.Entries[0].Tags, []string{"old", "new"}) {
		t.Errorf("tags not merged: %v", led.Entries[0].Tags)
	}
	// The duplicate bytes repopulated the store.
	data, err := os.ReadFile(filepath.Join(cfg.VideosDir(), canonical))
	if err != nil {
		t.Fatalf("store file not restored: %v", err)
	}
	if !reflect.DeepEqual(data, content) {
		t.Error("restored store file has wrong content")
	}
}

func TestInconsistentStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	content := []byte("orphaned bytes")
	canonical := sha256hex(content) + ".mp4"
	// A store file with no ledger entry.
	testsupport.WriteFile(t, filepath.Join(cfg.VideosDir(), canonical), content)

	writeBatch(t, cfg.TaggingDir(), "part-0",
		[]ledger.Entry{{Name: "video.mp4", Tags: []string{"x"}}},
		map[string][]byte{"video.mp4": content})

	err := NewMerger(cfg, nil).Run(&ledger.Ledger{})
	if !errors.Is(err, ErrInconsistentStore) {
		t.Fatalf("expected ErrInconsistentStore, got %v", err)
	}
}

func TestRunWithoutBatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	led := &ledger.Ledger{Entries: []ledger.Entry{{Name: "kept.mp4", Tags: []string{"x"}}}}

	if err := NewMerger(cfg, nil).Run(led); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	persisted, err := ledger.LoadFile(cfg.LedgerPath())
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if !reflect.DeepEqual(persisted, led) {
		t.Errorf("ledger should be persisted unchanged")
	}
}
