package thumbnails

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"vidvault/internal/config"
	"vidvault/internal/fileutil"
	"vidvault/internal/ledger"
	"vidvault/internal/logging"
	"vidvault/internal/media"
)

// Service keeps the thumbnail directory in sync with the ledger.
type Service struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewService creates a thumbnail service backed by the configured ffmpeg and
// ffprobe binaries.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "thumbnails"),
	}
}

// Update ensures a thumbnail exists for every ledger entry and returns the
// complete canonical-name to thumbnail-name mapping. Thumbnails are named by
// a prefix of the content hash, so unchanged content never triggers
// regeneration.
func (s *Service) Update(ctx context.Context, videosDir string, entries []ledger.Entry) (map[string]string, error) {
	thumbnailDir := s.cfg.ThumbnailsDir()
	if err := os.MkdirAll(thumbnailDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", thumbnailDir, err)
	}

	existing, err := existingStems(thumbnailDir)
	if err != nil {
		return nil, err
	}

	type job struct {
		video     string
		thumbnail string
	}

	mapping := make(map[string]string, len(entries))
	var missing []job
	for _, entry := range entries {
		thumbnail, prefix, err := s.thumbnailName(entry.Name)
		if err != nil {
			return nil, err
		}
		mapping[entry.Name] = thumbnail
		if _, ok := existing[prefix]; !ok {
			existing[prefix] = struct{}{}
			missing = append(missing, job{video: entry.Name, thumbnail: thumbnail})
		}
	}

	s.logger.Info("updating thumbnails", "missing", len(missing))
	for _, job := range missing {
		videoPath := filepath.Join(videosDir, job.video)
		duration, err := media.DurationSeconds(ctx, s.cfg.Thumbnails.FfprobeBinary, videoPath)
		if err != nil {
			return nil, fmt.Errorf("measure duration of %s: %w", job.video, err)
		}

		position := duration / 2
		destination := filepath.Join(thumbnailDir, job.thumbnail)
		if err := s.extractFrame(ctx, videoPath, position, destination); err != nil {
			return nil, fmt.Errorf("create thumbnail for %s: %w", job.video, err)
		}
		s.logger.Info("extracted thumbnail",
			"video", job.video,
			"thumbnail", job.thumbnail,
			"position_s", position)
	}

	return mapping, nil
}

func (s *Service) thumbnailName(canonical string) (name, prefix string, err error) {
	stem := strings.TrimSuffix(canonical, filepath.Ext(canonical))
	chars := s.cfg.Thumbnails.HashPrefixChars
	if len(stem) < chars {
		return "", "", fmt.Errorf("canonical name %q shorter than the configured hash prefix", canonical)
	}
	prefix = stem[:chars]
	return prefix + ".webp", prefix, nil
}

func (s *Service) extractFrame(ctx context.Context, source string, positionSeconds float64, destination string) error {
	// ffmpeg writes to a temp name first so a failed run never leaves a
	// half-written file that would be mistaken for an existing thumbnail.
	tmp := filepath.Join(filepath.Dir(destination), ".tmp-"+uuid.NewString()+".webp")
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-ss", strconv.FormatFloat(positionSeconds, 'f', -1, 64),
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=-1:%d", s.cfg.Thumbnails.Height),
		tmp,
	}
	cmd := exec.CommandContext(ctx, s.cfg.Thumbnails.FfmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg thumbnail: %w: %s", err, strings.TrimSpace(string(output)))
	}
	if err := os.Rename(tmp, destination); err != nil {
		return fmt.Errorf("finalize thumbnail: %w", err)
	}
	return nil
}

func existingStems(dir string) (map[string]struct{}, error) {
	files, err := fileutil.ListFiles(dir)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]struct{}, len(files))
	for _, file := range files {
		base := filepath.Base(file)
		stems[strings.TrimSuffix(base, filepath.Ext(base))] = struct{}{}
	}
	return stems, nil
}
