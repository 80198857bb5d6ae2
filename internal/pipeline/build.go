package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"vidvault/internal/config"
	"vidvault/internal/fileutil"
	"vidvault/internal/ingest"
	"vidvault/internal/ledger"
	"vidvault/internal/library"
	"vidvault/internal/logging"
	"vidvault/internal/render"
	"vidvault/internal/restrictions"
	"vidvault/internal/thumbnails"
)

// Build runs a full library build. The ledger is loaded once, mutated by
// ingestion, and every later stage works from that in-memory state.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	buildLogger := logging.NewComponentLogger(logger, "build").With("run_id", uuid.NewString())
	buildLogger.Info("starting build", "data_dir", cfg.Paths.DataDir, "build_dir", cfg.BuildDir())

	led, err := ledger.LoadFile(cfg.LedgerPath())
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	if err := ingest.NewMerger(cfg, logger).Run(led); err != nil {
		return fmt.Errorf("ingest batches: %w", err)
	}

	if err := syncBuildVideos(cfg, buildLogger, led); err != nil {
		return err
	}

	mapping, err := thumbnails.NewService(cfg, logger).Update(ctx, cfg.BuildVideosDir(), led.Entries)
	if err != nil {
		return fmt.Errorf("update thumbnails: %w", err)
	}

	rules, err := restrictions.LoadFile(cfg.RestrictionsPath())
	if err != nil {
		return fmt.Errorf("load restrictions: %w", err)
	}

	lib, err := library.Assemble(library.Params{
		Salt:       cfg.Access.Salt,
		Iterations: cfg.Access.Iterations,
		Ledger:     led,
		Rules:      rules,
		Thumbnails: mapping,
	})
	if err != nil {
		return fmt.Errorf("assemble library: %w", err)
	}

	if err := render.Pages(cfg, logger, lib); err != nil {
		return err
	}

	buildLogger.Info("build finished", "videos", len(lib.Videos))
	return nil
}

// syncBuildVideos mirrors ledger entries from the store into the build tree.
// Content addressing makes the copy incremental: a file that already exists
// under its canonical name is already correct.
func syncBuildVideos(cfg *config.Config, logger *slog.Logger, led *ledger.Ledger) error {
	if err := os.MkdirAll(cfg.BuildVideosDir(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.BuildVideosDir(), err)
	}

	copied := 0
	for _, entry := range led.Entries {
		dst := filepath.Join(cfg.BuildVideosDir(), entry.Name)
		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", dst, err)
		}

		src := filepath.Join(cfg.VideosDir(), entry.Name)
		if err := fileutil.CopyFile(src, dst); err != nil {
			return fmt.Errorf("mirror %s into the build tree: %w", entry.Name, err)
		}
		copied++
	}

	logger.Info("mirrored store into build tree", "copied", copied, "total", len(led.Entries))
	return nil
}
