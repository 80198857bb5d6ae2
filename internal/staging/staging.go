package staging

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
	"vidvault/internal/fileutil"
	"vidvault/internal/ledger"
	"vidvault/internal/logging"
)

// PrepareBatches partitions the triaged videos into part-N batch directories
// of at most cfg.Tagging.PartSize files each. Every batch receives a
// skeleton tags.txt with one empty block per video, ready for manual
// tagging.
func PrepareBatches(cfg *config.Config, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "staging")

	files, err := fileutil.ListFiles(cfg.TriagedDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			files = nil
		} else {
			return err
		}
	}
	logger.Info("detected triaged files", "count", len(files))
	if len(files) == 0 {
		logger.Info("nothing to stage")
		return nil
	}

	if err := os.MkdirAll(cfg.TaggingDir(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.TaggingDir(), err)
	}

	id := 0
	for start := 0; start < len(files); start += cfg.Tagging.PartSize {
		chunk := files[start:min(start+cfg.Tagging.PartSize, len(files))]
		batchDir, nextID, err := freeBatchDir(cfg.TaggingDir(), id)
		if err != nil {
			return err
		}
		id = nextID

		logger.Info("staging batch", "batch", batchDir, "videos", len(chunk))
		if err := os.MkdirAll(batchDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", batchDir, err)
		}

		skeleton := &ledger.Ledger{}
		for _, file := range chunk {
			name := filepath.Base(file)
			if err := os.Rename(file, filepath.Join(batchDir, name)); err != nil {
				return fmt.Errorf("move %s: %w", file, err)
			}
			skeleton.Entries = append(skeleton.Entries, ledger.Entry{Name: name})
		}

		tagsPath := filepath.Join(batchDir, "tags.txt")
		if err := atomic.WriteFile(tagsPath, strings.NewReader(skeleton.Serialize())); err != nil {
			return fmt.Errorf("write %s: %w", tagsPath, err)
		}
	}

	return nil
}

// freeBatchDir finds the first part-N directory that does not exist yet,
// starting the scan at id.
func freeBatchDir(taggingDir string, id int) (string, int, error) {
	for {
		candidate := filepath.Join(taggingDir, fmt.Sprintf("part-%d", id))
		_, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, id + 1, nil
		}
		if err != nil {
			return "", 0, fmt.Errorf("stat %s: %w", candidate, err)
		}
		id++
	}
}
