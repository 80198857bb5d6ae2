package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"vidvault/internal/config"
	"vidvault/internal/contentid"
	"vidvault/internal/fileutil"
	"vidvault/internal/ledger"
	"vidvault/internal/logging"
)

var (
	// ErrMissingExtension marks a batch file whose name carries no
	// extension; the canonical name needs one.
	ErrMissingExtension = errors.New("missing file extension")

	// ErrInconsistentStore marks a store file with no ledger entry. The
	// store and ledger have diverged and need manual repair.
	ErrInconsistentStore = errors.New("inconsistent store")
)

// Merger folds tagged batch entries into the content store and the ledger.
type Merger struct {
	cfg    *config.Config
	logger *slog.Logger
	index  map[string]int
}

// NewMerger creates an ingestion merger.
func NewMerger(cfg *config.Config, logger *slog.Logger) *Merger {
	return &Merger{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "ingest"),
	}
}

// Run ingests every pending batch, mutating led in place, then persists the
// ledger exactly once. Batch failures do not stop the run: every batch and
// file is attempted, the ledger is written regardless, and the first error
// encountered is returned afterwards so partial progress is never lost.
func (m *Merger) Run(led *ledger.Ledger) error {
	if err := os.MkdirAll(m.cfg.VideosDir(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", m.cfg.VideosDir(), err)
	}

	m.index = led.Index()

	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	batchDirs, err := fileutil.ListDirs(m.cfg.TaggingDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			batchDirs = nil
		} else {
			record(err)
		}
	}

	for _, batchDir := range batchDirs {
		record(m.ingestBatch(led, batchDir))
	}

	writeErr := led.WriteFile(m.cfg.LedgerPath())
	if firstErr != nil {
		return firstErr
	}
	return writeErr
}

// ingestBatch processes one part-N directory. Tagged entries are ingested;
// untagged and failed entries stay pending. An emptied batch is removed,
// otherwise its tags file is rewritten with only the pending entries.
func (m *Merger) ingestBatch(led *ledger.Ledger, batchDir string) error {
	tagsPath := filepath.Join(batchDir, "tags.txt")
	data, err := os.ReadFile(tagsPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", tagsPath, err)
	}
	batch, err := ledger.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", tagsPath, err)
	}

	var firstErr error
	var pending []ledger.Entry
	for _, entry := range batch.Entries {
		if entry.Untagged() {
			pending = append(pending, entry)
			continue
		}
		if err := m.ingestVideo(led, batchDir, entry); err != nil {
			err = fmt.Errorf("ingest %s from %s: %w", entry.Name, batchDir, err)
			m.logger.Warn("batch entry failed", "batch", batchDir, "file", entry.Name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			pending = append(pending, entry)
		}
	}

	if len(pending) == 0 {
		m.logger.Info("finished batch", "batch", batchDir)
		if err := os.Remove(tagsPath); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %s: %w", tagsPath, err)
			}
			return firstErr
		}
		if err := os.Remove(batchDir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", batchDir, err)
		}
		return firstErr
	}

	remaining := &ledger.Ledger{Entries: pending}
	if err := atomic.WriteFile(tagsPath, strings.NewReader(remaining.Serialize())); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("rewrite %s: %w", tagsPath, err)
	}
	return firstErr
}

// ingestVideo moves one tagged file into the content store under its
// canonical name, or merges its tags into the existing entry when the same
// bytes were already ingested.
func (m *Merger) ingestVideo(led *ledger.Ledger, batchDir string, entry ledger.Entry) error {
	extension := strings.TrimPrefix(filepath.Ext(entry.Name), ".")
	if extension == "" {
		return fmt.Errorf("%w: %s", ErrMissingExtension, entry.Name)
	}

	source := filepath.Join(batchDir, entry.Name)
	hash, err := contentid.HashFile(source)
	if err != nil {
		return err
	}
	canonical := hash + "." + extension
	destination := filepath.Join(m.cfg.VideosDir(), canonical)

	if position, ok := m.index[canonical]; ok {
		// Same bytes tagged twice: keep the tags, never a second entry.
		m.logger.Warn("ledger already has this content, merging tags", "file", canonical)
		if _, err := os.Stat(destination); err == nil {
			if err := os.Remove(source); err != nil {
				return fmt.Errorf("remove duplicate %s: %w", source, err)
			}
		} else if errors.Is(err, fs.ErrNotExist) {
			// The store file went missing; the duplicate restores it.
			if err := os.Rename(source, destination); err != nil {
				return fmt.Errorf("restore %s: %w", destination, err)
			}
		} else {
			return fmt.Errorf("stat %s: %w", destination, err)
		}
		led.Entries[position].MergeTags(entry.Tags)
		return nil
	}

	if _, err := os.Stat(destination); err == nil {
		return fmt.Errorf("%w: %s exists in the store but has no ledger entry", ErrInconsistentStore, canonical)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", destination, err)
	}

	m.logger.Info("moving video into store", "source", source, "destination", destination, "tags", len(entry.Tags))
	if err := os.Rename(source, destination); err != nil {
		return fmt.Errorf("move %s: %w", source, err)
	}
	led.Entries = append(led.Entries, ledger.Entry{Name: canonical, Tags: entry.Tags})
	m.index[canonical] = len(led.Entries) - 1
	return nil
}
