package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Flags(t *testing.T) {
	assert.Equal(t, "project", Cmd.Use)
	for _, name := range []string{"year", "initial", "details"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "0", Cmd.Flags().Lookup("year").DefValue)
}
