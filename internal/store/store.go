// Package store loads the classification rule file (keyword groups that map
// project labels to budget items) from YAML.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/moze-ledger/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is looked up when no explicit path is configured.
const DefaultRulesFile = "rules.yaml"

// KeywordGroup maps any of Keywords found in a project label to a budget item.
// DefaultName is used when the item is missing from the recurring table.
type KeywordGroup struct {
	ID          string   `yaml:"id"`
	DefaultName string   `yaml:"default_name"`
	Keywords    []string `yaml:"keywords"`
}

// RuleSet is the content of the rules file.
type RuleSet struct {
	// TagPrefix is the letter that precedes the digits in "#R12" style tags.
	TagPrefix       string         `yaml:"tag_prefix"`
	ProjectKeywords []KeywordGroup `yaml:"project_keywords"`
}

// DefaultRuleSet is used when no rules file exists.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		TagPrefix: "R",
		ProjectKeywords: []KeywordGroup{
			{ID: "R37", DefaultName: "Shopping", Keywords: []string{"shopping", "購物"}},
			{ID: "R35", DefaultName: "Food", Keywords: []string{"food", "吃喝"}},
			{ID: "R36", DefaultName: "Transport", Keywords: []string{"transport", "交通"}},
			{ID: "R38", DefaultName: "Entertainment", Keywords: []string{"entertainment", "娛樂"}},
		},
	}
}

// RuleLoader is what the classifier needs from a rule source.
type RuleLoader interface {
	LoadRules() (*RuleSet, error)
}

// RuleStore reads a RuleSet from a YAML file.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for path; an empty path searches DefaultRulesFile.
func NewRuleStore(path string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleStore{RulesFile: path, logger: logger}
}

// FindConfigFile searches the working directory, ./config and
// ~/.config/moze-ledger for filename.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "moze-ledger", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules reads the rule file. A missing file yields DefaultRuleSet; a file
// that omits a section inherits that section from the defaults.
func (s *RuleStore) LoadRules() (*RuleSet, error) {
	filename := s.RulesFile
	if filename == "" {
		filename = DefaultRulesFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Debug("Rules file not found, using built-in rules",
			logging.Field{Key: logging.FieldInputFile, Value: filename})
		return DefaultRuleSet(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	defaults := DefaultRuleSet()
	if strings.TrimSpace(rules.TagPrefix) == "" {
		rules.TagPrefix = defaults.TagPrefix
	}
	if len(rules.ProjectKeywords) == 0 {
		rules.ProjectKeywords = defaults.ProjectKeywords
	}
	for i, g := range rules.ProjectKeywords {
		if g.ID == "" || len(g.Keywords) == 0 {
			return nil, fmt.Errorf("rules file %s: keyword group %d needs an id and keywords", path, i)
		}
	}

	s.logger.Info("Loaded classification rules",
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rules.ProjectKeywords)})
	return &rules, nil
}
