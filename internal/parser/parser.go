package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/coursecharts-cli/internal/analysis"
)

// Loader turns an already-structured row payload into a RowSet.
type Loader interface {
	CanLoad(filename string) bool
	Load(content []byte) (*analysis.RowSet, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a file type or payload shape that no loader handles.
var ErrUnsupported = errors.New("unsupported row format")

// ErrEmpty indicates a payload without any rows.
var ErrEmpty = errors.New("no rows found")

// LoadFile selects a loader based on filename and returns the decoded rows.
// A path of "-" reads JSON from stdin.
func LoadFile(path string) (*analysis.RowSet, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return Load("stdin.json", data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(path, data)
}

// Load decodes content with the loader registered for name's extension.
func Load(name string, content []byte) (*analysis.RowSet, error) {
	for _, l := range registry {
		if l.CanLoad(name) {
			rs, err := l.Load(content)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", filepath.Base(name), err)
			}
			return rs, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupported, filepath.Ext(name), strings.Join(Supported(), ", "))
}

// Supported lists the extensions the registry accepts, for help text.
func Supported() []string {
	return []string{".json", ".yaml", ".yml"}
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(jsonLoader{})
	Register(yamlLoader{})
}
