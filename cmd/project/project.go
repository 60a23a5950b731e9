// Package project implements the cash-flow projection command.
package project

import (
	"fmt"
	"time"

	"fjacquet/moze-ledger/cmd/common"
	"fjacquet/moze-ledger/cmd/root"
	"fjacquet/moze-ledger/internal/projector"
	"fjacquet/moze-ledger/internal/report"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	year    int
	initial string
	details bool
)

// Cmd represents the project command
var Cmd = &cobra.Command{
	Use:   "project",
	Short: "Project income, expenses, savings and net worth month by month",
	Long: `Project a calendar year from the recurring budget items, the insurance
detail tables and the one-off events. The starting net worth is the current
valuation unless --initial is given.`,
	RunE: run,
}

func init() {
	Cmd.Flags().IntVarP(&year, "year", "y", 0, "Calendar year to project (default: current year)")
	Cmd.Flags().StringVar(&initial, "initial", "", "Starting net worth in base currency (default: computed)")
	Cmd.Flags().BoolVarP(&details, "details", "d", false, "List the line items of every month")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	now := time.Now()
	if year == 0 {
		year = now.Year()
	}

	v := common.LoadValuation(ctx, c, now)
	start := v.InitialTotal
	if initial != "" {
		start, err = decimal.NewFromString(initial)
		if err != nil {
			return fmt.Errorf("invalid --initial amount %q: %w", initial, err)
		}
	}

	months := c.GetProjector().Project(projector.Input{
		Year:         year,
		InitialTotal: start,
		Recurring:    v.Recurring,
		OneOffs:      v.Events,
		Insurance:    v.Insurance,
		Rates:        v.Rates.Rates,
	})

	gen := report.NewGenerator(c.GetConfig().Pipeline.BaseCurrency, c.GetLogger())
	return gen.Projection(cmd.OutOrStdout(), months, root.SharedFlags.Format, details)
}
