package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/infra/ledger"
	"github.com/spf13/cobra"
)

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scan and clean runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := c.openLedger(c.flags.dbPath)
			if err != nil {
				return err
			}
			defer l.Close()

			entries, err := l.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(c.out, "no runs recorded")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tMODE\tPOLICY\tFILE\tRISK\tFIELDS\tREMOVED\tCHANGED")
			for _, e := range entries {
				changed := "no"
				if e.HashAfter != "" && e.HashAfter != e.HashBefore {
					changed = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					e.RecordedAt.Local().Format(time.DateTime), e.Mode, e.Policy, e.FileName,
					e.OverallRisk, e.TotalCount, e.RemovedCount, changed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", ledger.DefaultLimit, "number of runs to show")
	return cmd
}
