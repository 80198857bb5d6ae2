package mtp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"vidvault/internal/config"
	"vidvault/internal/fileutil"
	"vidvault/internal/logging"
)

// CopiedFile identifies a device file that was already pulled. Device paths
// are relative to the media folder; the size guards against the device
// reusing a name for different content.
type CopiedFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Copier pulls new media files off a mounted device into the new-files
// directory.
type Copier struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewCopier creates a Copier operating on the given configuration.
func NewCopier(cfg *config.Config, logger *slog.Logger) *Copier {
	return &Copier{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "mtp"),
	}
}

// CopyNewVideos copies every file under the mount's media folder that is not
// yet recorded in the copied-files state. Files that fail to copy are logged
// and skipped; the state for the successful copies is persisted regardless,
// and the first failure is reported after the walk completes.
func (c *Copier) CopyNewVideos(mount Mount) error {
	root, err := StorageRoot(mount)
	if err != nil {
		return err
	}
	mediaDir := filepath.Join(root, c.cfg.Device.MediaSubdir)
	candidates, err := listDeviceFiles(mediaDir)
	if err != nil {
		return err
	}

	state, err := loadCopiedState(c.cfg.CopiedFilesPath())
	if err != nil {
		return err
	}
	seen := make(map[CopiedFile]bool, len(state))
	for _, file := range state {
		seen[file] = true
	}

	if err := os.MkdirAll(c.cfg.NewFilesDir(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", c.cfg.NewFilesDir(), err)
	}

	var firstErr error
	copied := 0
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}

		src := filepath.Join(mediaDir, candidate.Path)
		dst, err := freeDestination(c.cfg.NewFilesDir(), filepath.Base(candidate.Path))
		if err == nil {
			c.logger.Info("copying", "device_path", candidate.Path, "size", candidate.Size)
			err = fileutil.CopyFileVerified(src, dst)
		}
		if err != nil {
			c.logger.Warn("copy failed", "device_path", candidate.Path, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("copy %s: %w", candidate.Path, err)
			}
			continue
		}

		state = append(state, candidate)
		copied++
	}

	if err := saveCopiedState(c.cfg.CopiedFilesPath(), state); err != nil {
		if firstErr == nil {
			firstErr = err
		} else {
			c.logger.Error("persisting copied-files state failed", "error", err)
		}
	}

	c.logger.Info("device copy finished",
		"new", copied,
		"skipped", len(candidates)-copied,
		"destination", c.cfg.NewFilesDir())
	return firstErr
}

// listDeviceFiles walks the device media folder and returns every regular
// file as a CopiedFile keyed by its relative path and size.
func listDeviceFiles(mediaDir string) ([]CopiedFile, error) {
	var files []CopiedFile
	err := filepath.WalkDir(mediaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(mediaDir, path)
		if err != nil {
			return err
		}
		files = append(files, CopiedFile{Path: rel, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk device media folder %s: %w", mediaDir, err)
	}
	return files, nil
}

// freeDestination returns dir/name, or the first "name (N).ext" variant that
// does not exist yet when the plain name is taken. Device folders reuse base
// names across subdirectories, so collisions are expected.
func freeDestination(dir, name string) (string, error) {
	candidate := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
}

func loadCopiedState(path string) ([]CopiedFile, error) {
	data, exists, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	var state []CopiedFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return state, nil
}

func saveCopiedState(path string, state []CopiedFile) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode copied-files state: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(append(data, '\n'))); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
