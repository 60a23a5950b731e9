package store

// MockRuleStore returns a fixed RuleSet, or LoadError when set.
type MockRuleStore struct {
	Rules     *RuleSet
	LoadError error
}

func (m *MockRuleStore) LoadRules() (*RuleSet, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Rules == nil {
		return DefaultRuleSet(), nil
	}
	return m.Rules, nil
}
