package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdates(t *testing.T) {
	got, err := ParseUpdates([]string{"1=152,000", " 7 = 12.5 "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "152000", got[0].Quantity.String())
	assert.Equal(t, "7", got[1].ID)
	assert.Equal(t, "12.5", got[1].Quantity.String())

	tests := []struct {
		name  string
		input string
	}{
		{"missing separator", "1"},
		{"missing id", "=3"},
		{"bad quantity", "1=lots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUpdates([]string{tt.input})
			assert.Error(t, err)
		})
	}
}

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "assets", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("set"))
}
