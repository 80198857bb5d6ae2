package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vidvault/internal/ledger"
	"vidvault/internal/library"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Tag ledger utilities",
	}
	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every cataloged video with its tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			led, err := ledger.LoadFile(cfg.LedgerPath())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(led.Entries))
			for _, entry := range led.Entries {
				date := ""
				if d := library.ExtractDate(entry.Tags); d != nil {
					date = d.String()
				}
				rows = append(rows, []string{
					entry.Name,
					date,
					strings.Join(entry.Tags, ", "),
					strconv.Itoa(len(entry.Tags)),
				})
			}

			out := cmd.OutOrStdout()
			writeRows(out,
				[]string{"Video", "Date", "Tags", "#"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
			if isTerminal(out) {
				fmt.Fprintf(out, "%d videos\n", len(rows))
			}
			return nil
		},
	}
}
