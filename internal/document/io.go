package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"pathbridge/internal/types"
)

// Load reads and parses the YAML document at path.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("document: %s: %w", path, types.ErrNotFound)
		}
		return nil, fmt.Errorf("document: reading %s: %w", path, err)
	}
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("document: %s: %w", path, err)
	}
	return n, nil
}

// Parse decodes a YAML document into a node.
func Parse(data []byte) (*Node, error) {
	n := new(Node)
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("decoding yaml: %v: %w", err, types.ErrParse)
	}
	return n, nil
}

// Marshal encodes the node as YAML. Mapping keys come out in node order, not
// sorted, and non-ASCII text is written verbatim.
func Marshal(n *Node) ([]byte, error) {
	return yaml.Marshal(n)
}

// Save writes the node to path as YAML.
func Save(path string, n *Node) error {
	data, err := Marshal(n)
	if err != nil {
		return fmt.Errorf("document: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("document: writing %s: %w", path, err)
	}
	return nil
}
