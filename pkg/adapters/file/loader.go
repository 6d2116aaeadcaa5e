// Package file loads dialogue trees from YAML files and persists assignments as JSON.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader reads one tree per file from a directory.
// The file name without its extension is the tree id.
type Loader struct {
	Dir string
}

var extensions = []string{".yaml", ".yml"}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// GetTree parses <dir>/<id>.yaml (or .yml).
func (l *Loader) GetTree(id string) (*domain.Tree, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: %q", domain.ErrTreeNotFound, id)
	}

	for _, ext := range extensions {
		path := filepath.Join(l.Dir, id+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tree file %s: %w", path, err)
		}
		return Parse(id, data)
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrTreeNotFound, id)
}

// ListTrees returns the ids of every tree file in the directory, sorted.
func (l *Loader) ListTrees() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list trees in %s: %w", l.Dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			ids = append(ids, strings.TrimSuffix(e.Name(), ext))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Parse decodes a YAML tree document.
func Parse(id string, data []byte) (*domain.Tree, error) {
	var doc dialogue.TreeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree %s: %w", id, err)
	}
	return doc.Tree(id)
}

// Write serializes t as YAML into the loader's directory.
func (l *Loader) Write(t *domain.Tree) error {
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure tree directory: %w", err)
	}
	data, err := yaml.Marshal(dialogue.NewDocument(t))
	if err != nil {
		return fmt.Errorf("failed to marshal tree %s: %w", t.ID, err)
	}
	return os.WriteFile(filepath.Join(l.Dir, t.ID+".yaml"), data, 0644)
}
