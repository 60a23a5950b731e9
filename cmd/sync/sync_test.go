package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "sync", Cmd.Use)
	flag := Cmd.Flags().Lookup("input")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "i", flag.Shorthand)
		assert.Equal(t, "", flag.DefValue)
	}
	assert.NotNil(t, Cmd.RunE)
}
