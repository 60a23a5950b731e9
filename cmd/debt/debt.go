// Package debt implements the loan status command.
package debt

import (
	"time"

	"fjacquet/moze-ledger/cmd/root"
	"fjacquet/moze-ledger/internal/networth"
	"fjacquet/moze-ledger/internal/report"

	"github.com/spf13/cobra"
)

var ids []string

// Cmd represents the debt command
var Cmd = &cobra.Command{
	Use:   "debt",
	Short: "Show remaining balance, paid share and next payment of each loan",
	RunE:  run,
}

func init() {
	Cmd.Flags().StringSliceVar(&ids, "id", nil, "Loan IDs to show (default from projection.debt_ids)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	loans := ids
	if len(loans) == 0 {
		loans = c.DebtIDs()
	}

	today := time.Now()
	debts := make([]networth.Debt, 0, len(loans))
	for _, id := range loans {
		schedule, err := c.GetRepository().LoadDebt(ctx, id)
		if err != nil {
			c.GetLogger().WithError(err).Warn("Debt schedule unavailable")
		}
		debts = append(debts, networth.DebtStatus(id, schedule, today))
	}

	gen := report.NewGenerator(c.GetConfig().Pipeline.BaseCurrency, c.GetLogger())
	return gen.Debts(cmd.OutOrStdout(), debts, root.SharedFlags.Format)
}
