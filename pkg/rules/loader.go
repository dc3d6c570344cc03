// Package rules loads named rewrite rules from a YAML file, so sessions
// can start from an existing rule base instead of redefining it by hand.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/pkg/rewrite"
	"github.com/aretw0/graft/pkg/term"
)

// Config is one rule entry in a rules file. Head and body use the same
// term syntax as the command protocol.
type Config struct {
	Name string `yaml:"name"`
	Head string `yaml:"head"`
	Body string `yaml:"body"`
}

// File is the structure of a rules.yaml document.
type File struct {
	Rules []Config `yaml:"rules"`
}

// Named pairs a rule with its table name, preserving file order.
type Named struct {
	Name string
	Rule rewrite.Rule
}

// Load reads and parses a rules file. A missing file is not an error and
// yields no rules; a file that exists but does not parse is.
func Load(path string) ([]Named, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	named, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return named, nil
}

// Parse decodes a YAML rules document and parses every head and body
// term. Entries without a name are rejected rather than skipped: a rule
// that cannot be applied by name is a mistake in the file.
func Parse(data []byte) ([]Named, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}

	named := make([]Named, 0, len(file.Rules))
	for i, cfg := range file.Rules {
		if cfg.Name == "" {
			return nil, fmt.Errorf("rule entry %d has no name", i)
		}
		head, err := term.ParseString(cfg.Head)
		if err != nil {
			return nil, fmt.Errorf("head of rule %s: %w", cfg.Name, err)
		}
		body, err := term.ParseString(cfg.Body)
		if err != nil {
			return nil, fmt.Errorf("body of rule %s: %w", cfg.Name, err)
		}
		named = append(named, Named{
			Name: cfg.Name,
			Rule: rewrite.Rule{Head: head, Body: body},
		})
	}
	return named, nil
}
