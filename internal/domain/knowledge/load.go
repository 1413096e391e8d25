package knowledge

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileEntry is the on-disk shape of one knowledge definition.
type fileEntry struct {
	Term     string   `yaml:"term"`
	Synonyms []string `yaml:"synonyms"`
	Broader  []string `yaml:"broader"`
}

// LoadFile reads a knowledge base definition from a YAML file.
// The file is a list of {term, synonyms, broader} entries.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read knowledge file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a knowledge base from YAML bytes.
func Parse(data []byte) (*Base, error) {
	var entries []fileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge definition: %w", err)
	}

	base := NewBase()
	for i, e := range entries {
		if Normalize(e.Term) == "" {
			return nil, fmt.Errorf("knowledge entry %d: term is required", i)
		}
		base.AddRelation(e.Term, e.Synonyms, e.Broader)
	}
	return base, nil
}
