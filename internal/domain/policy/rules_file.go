package policy

import (
	"encoding/json"
	"fmt"
	"os"
)

type ruleFile struct {
	Rules []ruleEntry `json:"rules"`
}

type ruleEntry struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// LoadRulesFile reads approval rules from a JSON file:
//
//	{"rules": [{"name": "max-quantity", "expression": "quantity <= 1000.0"}]}
func LoadRulesFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy rules: %w", err)
	}

	var file ruleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, entry := range file.Rules {
		if entry.Name == "" {
			return nil, fmt.Errorf("policy rule %d: name is required", i)
		}
		if entry.Expression == "" {
			return nil, fmt.Errorf("policy rule %q: expression is required", entry.Name)
		}
		rules = append(rules, Rule{Name: entry.Name, Expression: entry.Expression})
	}

	return rules, nil
}
