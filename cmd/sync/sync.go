// Package sync implements the reconciliation command.
package sync

import (
	"fmt"

	"fjacquet/moze-ledger/cmd/root"
	"fjacquet/moze-ledger/internal/factory"

	"github.com/spf13/cobra"
)

var input string

// Cmd represents the sync command
var Cmd = &cobra.Command{
	Use:   "sync",
	Short: "Import the latest MOZE export and rebuild the ledger",
	Long: `Import a MOZE CSV export (the newest one in Google Drive, or a local file
given with --input), classify and net the transactions, persist them and
rebuild the monthly ledger.`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "", "Local MOZE CSV export (default: newest export in Drive)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := root.Context(cmd)
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			c.GetLogger().WithError(cerr).Warn("Failed to close resources")
		}
	}()

	src, err := factory.OpenSource(ctx, c.GetConfig(), input, c.GetLogger())
	if err != nil {
		return err
	}

	res := c.GetSyncer().Sync(ctx, src)
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	if !res.Success {
		return fmt.Errorf("sync did not complete")
	}
	return nil
}
