package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/moze-ledger/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleStore_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	s := NewRuleStore(filepath.Join(dir, "absent.yaml"), logging.NewMockLogger())

	rules, err := s.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, DefaultRuleSet(), rules)
	assert.Equal(t, "R37", rules.ProjectKeywords[0].ID)
	assert.Equal(t, "R", rules.TagPrefix)
}

func TestRuleStore_LoadFile(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   bool
		wantIDs   []string
		wantPrefx string
	}{
		{
			name: "custom groups",
			content: `
tag_prefix: B
project_keywords:
  - id: B01
    default_name: Pets
    keywords: [pet, 寵物]
`,
			wantIDs:   []string{"B01"},
			wantPrefx: "B",
		},
		{
			name:      "empty file inherits defaults",
			content:   "{}\n",
			wantIDs:   []string{"R37", "R35", "R36", "R38"},
			wantPrefx: "R",
		},
		{
			name: "group without keywords",
			content: `
project_keywords:
  - id: B01
`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "project_keywords: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			rules, err := NewRuleStore(path, logging.NewMockLogger()).LoadRules()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var ids []string
			for _, g := range rules.ProjectKeywords {
				ids = append(ids, g.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPrefx, rules.TagPrefix)
		})
	}
}

func TestRuleStore_FindConfigFileInConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", DefaultRulesFile), []byte("{}"), 0o600))

	path, err := NewRuleStore("", nil).FindConfigFile(DefaultRulesFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("config", DefaultRulesFile), path)
}

func TestMockRuleStore(t *testing.T) {
	rules, err := (&MockRuleStore{}).LoadRules()
	require.NoError(t, err)
	assert.NotEmpty(t, rules.ProjectKeywords)

	_, err = (&MockRuleStore{LoadError: errors.New("boom")}).LoadRules()
	assert.EqualError(t, err, "boom")
}
