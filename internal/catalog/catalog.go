// Package catalog loads agent descriptors from disk.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kamusis/agent-scout/internal/agent"
)

// ErrNotArray indicates the catalog file is not a list of records.
var ErrNotArray = errors.New("catalog must contain an array of agent records")

// Load reads the catalog at path. Files ending in .yaml or .yml are parsed as
// YAML; anything else as JSON, keeping numbers as json.Number.
func Load(path string) ([]agent.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog %s: %w", path, err)
	}
	var records []agent.Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		records, err = ParseYAML(data)
	default:
		records, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return records, nil
}

// ParseJSON decodes a JSON array of objects.
func ParseJSON(data []byte) ([]agent.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotArray
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if items == nil {
		return nil, ErrNotArray
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after array")
	}
	return toRecords(items)
}

// ParseYAML decodes a YAML sequence of mappings.
func ParseYAML(data []byte) ([]agent.Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return nil, ErrNotArray
	}
	var items []any
	if err := node.Content[0].Decode(&items); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return toRecords(items)
}

func toRecords(items []any) ([]agent.Record, error) {
	out := make([]agent.Record, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d is %T, want an object", i, it)
		}
		out = append(out, agent.Record(m))
	}
	return out, nil
}
