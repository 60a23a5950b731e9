package root_test

import (
	"testing"

	"fjacquet/moze-ledger/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "moze-ledger", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "MOZE bookkeeping exports")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	if root.Cmd.PersistentFlags().Lookup("format") == nil {
		root.Init()
	}

	format := root.Cmd.PersistentFlags().Lookup("format")
	if assert.NotNil(t, format) {
		assert.Equal(t, "f", format.Shorthand)
		assert.Equal(t, "text", format.DefValue)
	}
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-level"))
}

func TestNewContainer_RequiresConfig(t *testing.T) {
	root.AppConfig = nil
	_, err := root.NewContainer(root.Context(&cobra.Command{}))
	assert.EqualError(t, err, "configuration not loaded")
}
