// Package ledger implements the command that prints the persisted ledger.
package ledger

import (
	"strings"

	"fjacquet/moze-ledger/cmd/root"
	agg "fjacquet/moze-ledger/internal/ledger"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/report"

	"github.com/spf13/cobra"
)

var month string

// Cmd represents the ledger command
var Cmd = &cobra.Command{
	Use:   "ledger",
	Short: "Print the persisted monthly ledger",
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&month, "month", "m", "", "Only show one month (YYYY-MM)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	entries, err := c.GetRepository().LoadLedger(ctx)
	if err != nil {
		return err
	}
	entries = FilterMonth(entries, month)
	agg.SortEntries(entries)

	gen := report.NewGenerator(c.GetConfig().Pipeline.BaseCurrency, c.GetLogger())
	return gen.Ledger(cmd.OutOrStdout(), entries, root.SharedFlags.Format)
}

// FilterMonth keeps the entries of month; an empty month keeps everything.
func FilterMonth(entries []models.LedgerEntry, month string) []models.LedgerEntry {
	month = strings.TrimSpace(month)
	if month == "" {
		return entries
	}
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.YearMonth == month {
			out = append(out, e)
		}
	}
	return out
}
