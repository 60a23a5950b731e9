// Package assets implements the inventory update command.
package assets

import (
	"fmt"
	"strings"

	"fjacquet/moze-ledger/cmd/root"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sets []string

// Cmd represents the assets command
var Cmd = &cobra.Command{
	Use:     "assets",
	Short:   "Set holding quantities in the asset inventory and log the change",
	Example: `  moze-ledger assets --set 1=152000 --set 7=12.5`,
	RunE:    run,
}

func init() {
	Cmd.Flags().StringArrayVar(&sets, "set", nil, "New quantity as ID=QUANTITY (repeatable)")
}

func run(cmd *cobra.Command, args []string) error {
	updates, err := ParseUpdates(sets)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return fmt.Errorf("no updates given, use --set ID=QUANTITY")
	}

	ctx := root.Context(cmd)
	c, err := root.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	n, err := c.GetRepository().UpdateAssets(ctx, updates)
	if err != nil {
		return fmt.Errorf("failed to update assets: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %d of %d holdings.\n", n, len(updates))
	return nil
}

// ParseUpdates reads ID=QUANTITY pairs. Thousands separators are accepted.
func ParseUpdates(pairs []string) ([]models.AssetUpdate, error) {
	out := make([]models.AssetUpdate, 0, len(pairs))
	for _, p := range pairs {
		id, qty, ok := strings.Cut(p, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid update %q, expected ID=QUANTITY", p)
		}
		q, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(qty), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity for %s: %w", id, err)
		}
		out = append(out, models.AssetUpdate{ID: id, Quantity: q})
	}
	return out, nil
}
