package factory_test

import (
	"context"
	"testing"

	"fjacquet/moze-ledger/internal/config"
	"fjacquet/moze-ledger/internal/factory"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		wantBackend string
		expectError bool
	}{
		{name: "memory", backend: config.BackendMemory, wantBackend: "memory"},
		{name: "csv", backend: config.BackendCSV, wantBackend: "csv"},
		{name: "unknown", backend: "mongo", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Backend = tt.backend
			cfg.Store.CSVDir = t.TempDir()

			s, err := factory.OpenStore(context.Background(), cfg, logging.NewMockLogger())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			defer func() { _ = s.Close() }()
			assert.Equal(t, tt.wantBackend, s.Backend())
		})
	}
}

func TestOpenStore_NilConfig(t *testing.T) {
	_, err := factory.OpenStore(context.Background(), nil, nil)
	assert.EqualError(t, err, "configuration cannot be nil")
}

func TestOpenSource_LocalInput(t *testing.T) {
	src, err := factory.OpenSource(context.Background(), nil, "export.csv", nil)
	require.NoError(t, err)
	assert.Equal(t, pipeline.FileSource{Path: "export.csv"}, src)
}

func TestNewSuggester_Disabled(t *testing.T) {
	s, err := factory.NewSuggester(context.Background(), config.Default())
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestGoogleOptions(t *testing.T) {
	cfg := config.Default()
	assert.Empty(t, factory.GoogleOptions(cfg))
	cfg.Google.CredentialsFile = "sa.json"
	assert.Len(t, factory.GoogleOptions(cfg), 1)
}
