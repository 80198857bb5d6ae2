package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vidvault/internal/ledger"
	"vidvault/internal/media"
)

func newReencodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reencode-report",
		Short: "Report stored videos exceeding the re-encode thresholds",
		Long: "Probes every cataloged video and lists the ones above the configured " +
			"resolution, frame rate, or bitrate thresholds. The report is advisory: " +
			"re-encoding a stored file changes its content hash, so replacements go " +
			"through triage and tagging like any new video.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			led, err := ledger.LoadFile(cfg.LedgerPath())
			if err != nil {
				return err
			}

			targets := media.Targets{
				MaxLines:        cfg.Reencode.MaxLines,
				MaxFPS:          cfg.Reencode.MaxFPS,
				MaxMiBPerSecond: cfg.Reencode.MaxMiBPerSecond,
			}

			var rows [][]string
			for _, entry := range led.Entries {
				path := filepath.Join(cfg.VideosDir(), entry.Name)
				info, err := media.Probe(cmd.Context(), cfg.Thumbnails.FfprobeBinary, path)
				if err != nil {
					return err
				}
				reasons := info.ExceedsTargets(targets)
				if len(reasons) == 0 {
					continue
				}
				rows = append(rows, []string{
					entry.Name,
					fmt.Sprintf("%dx%d", info.Width, info.Height),
					fmt.Sprintf("%.1f MiB", float64(info.SizeBytes)/(1024*1024)),
					strings.Join(reasons, "; "),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "All %d videos are within targets.\n", len(led.Entries))
				return nil
			}
			writeRows(out,
				[]string{"Video", "Resolution", "Size", "Exceeds"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight})
			if isTerminal(out) {
				fmt.Fprintf(out, "%d of %d videos exceed targets\n", len(rows), len(led.Entries))
			}
			return nil
		},
	}
}
