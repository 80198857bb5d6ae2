package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidvault/internal/mtp"
)

func newMountsCommand() *cobra.Command {
	var gvfsDir string

	cmd := &cobra.Command{
		Use:         "list-mtp-mounts",
		Short:       "List gvfs mounts of connected devices",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mounts, err := mtp.ListMounts(gvfsDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(mounts) == 0 {
				fmt.Fprintln(out, "No gvfs mounts found; connect and unlock the device first.")
				return nil
			}

			rows := make([][]string, 0, len(mounts))
			for _, mount := range mounts {
				kind := "other"
				if mount.IsMTP() {
					kind = "mtp"
				}
				storage := ""
				if root, err := mtp.StorageRoot(mount); err == nil {
					storage = root
				}
				rows = append(rows, []string{mount.Name, kind, storage})
			}
			writeRows(out, []string{"Name", "Type", "Storage"}, rows, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&gvfsDir, "gvfs-dir", mtp.DefaultGvfsDir(), "gvfs mount directory to scan")
	return cmd
}
