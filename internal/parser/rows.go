package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
	"gopkg.in/yaml.v3"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool { return hasExt(filename, ".json") }

func (jsonLoader) Load(content []byte) (*analysis.RowSet, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmpty
	}
	if !json.Valid(content) {
		return nil, fmt.Errorf("invalid json")
	}
	// JSON is decoded through the YAML node tree so object key order survives.
	return decodeRows(content)
}

type yamlLoader struct{}

func (yamlLoader) CanLoad(filename string) bool { return hasExt(filename, ".yaml", ".yml") }

func (yamlLoader) Load(content []byte) (*analysis.RowSet, error) {
	return decodeRows(content)
}

// decodeRows accepts a sequence of row objects, or an envelope
// {columns: [...], rows: [...]} whose rows are objects or positional arrays.
func decodeRows(content []byte) (*analysis.RowSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrEmpty
	}
	root := doc.Content[0]

	var columns []string
	var items *yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		items = root
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			switch root.Content[i].Value {
			case "columns":
				if err := root.Content[i+1].Decode(&columns); err != nil {
					return nil, fmt.Errorf("decode columns: %w", err)
				}
			case "rows", "data":
				items = root.Content[i+1]
			}
		}
		if items == nil {
			return nil, fmt.Errorf("%w: object without rows", ErrUnsupported)
		}
	default:
		return nil, fmt.Errorf("%w: top-level scalar", ErrUnsupported)
	}
	if items.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: rows must be a list", ErrUnsupported)
	}
	if len(items.Content) == 0 {
		return nil, ErrEmpty
	}

	rows := make([]analysis.RawRow, 0, len(items.Content))
	var order []string
	seen := map[string]bool{}
	for idx, item := range items.Content {
		row := analysis.RawRow{}
		switch item.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				key := item.Content[i].Value
				val, err := scalar(item.Content[i+1])
				if err != nil {
					return nil, fmt.Errorf("row %d, %q: %w", idx+1, key, err)
				}
				row[key] = val
				if !seen[key] {
					seen[key] = true
					order = append(order, key)
				}
			}
		case yaml.SequenceNode:
			if len(columns) == 0 {
				return nil, fmt.Errorf("%w: positional rows need columns", ErrUnsupported)
			}
			for i, cell := range item.Content {
				if i >= len(columns) {
					break
				}
				val, err := scalar(cell)
				if err != nil {
					return nil, fmt.Errorf("row %d, %q: %w", idx+1, columns[i], err)
				}
				row[columns[i]] = val
			}
		default:
			return nil, fmt.Errorf("%w: row %d is not an object", ErrUnsupported, idx+1)
		}
		rows = append(rows, row)
	}
	if len(columns) == 0 {
		columns = order
	}
	return analysis.NewRowSet(columns, rows), nil
}

// scalar decodes a cell. Nested values are kept as their decoded Go form; the
// coercer treats them as non-numeric.
func scalar(n *yaml.Node) (any, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
