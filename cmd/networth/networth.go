// Package networth implements the valuation command.
package networth

import (
	"time"

	"fjacquet/moze-ledger/cmd/common"
	"fjacquet/moze-ledger/cmd/root"
	"fjacquet/moze-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the networth command
var Cmd = &cobra.Command{
	Use:   "networth",
	Short: "Value holdings, house equity and insurance cash values",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	base := c.GetConfig().Pipeline.BaseCurrency
	v := common.LoadValuation(ctx, c, time.Now())
	return report.NewGenerator(base, c.GetLogger()).NetWorth(cmd.OutOrStdout(), v.Report(base), root.SharedFlags.Format)
}
