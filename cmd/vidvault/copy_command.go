package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidvault/internal/mtp"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var gvfsDir string

	cmd := &cobra.Command{
		Use:   "copy-new-videos [mount-name]",
		Short: "Pull new media off a connected MTP device",
		Long: "Copies every device file not pulled before into the new-files " +
			"directory. Without a mount name, exactly one MTP mount must be present.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			mount, err := mtp.ResolveMount(gvfsDir, name)
			if err != nil {
				return err
			}

			if err := mtp.NewCopier(cfg, logger).CopyNewVideos(mount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"New files are in %s; triage keepers into %s and run `vidvault prepare`.\n",
				cfg.NewFilesDir(), cfg.TriagedDir())
			return nil
		},
	}

	cmd.Flags().StringVar(&gvfsDir, "gvfs-dir", mtp.DefaultGvfsDir(), "gvfs mount directory to scan")
	return cmd
}
