package translate

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// LoadFile loads and parses a YAML rule file from the given path.
func LoadFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation rules %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a RuleFile.
func Parse(data []byte) (*RuleFile, error) {
	var rf RuleFile

	err := yaml.Unmarshal(data, &rf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse translation rules YAML: %w", err)
	}

	applyDefaults(&rf)

	return &rf, nil
}

// DefaultRules returns the embedded built-in rule file.
func DefaultRules() *RuleFile {
	rf, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("translate: embedded rules.yaml is invalid: %v", err))
	}

	return rf
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(rf *RuleFile) {
	if rf.Version == "" {
		rf.Version = "1"
	}

	for i := range rf.Rules {
		r := &rf.Rules[i]
		if r.EngineKey == "" {
			r.EngineKey = r.UIKey
		}
	}
}

// Marshal serializes a RuleFile to YAML.
func Marshal(rf *RuleFile) ([]byte, error) {
	return yaml.Marshal(rf)
}
