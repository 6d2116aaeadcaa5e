// Package loam loads dialogue trees from a Loam repository.
//
// Each document holds one tree: the frontmatter carries the nodes and the
// Markdown body is a free-form description shown by inspection tools.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/parley/pkg/dialogue"
	"github.com/aretw0/parley/pkg/domain"
)

// Loader adapts the Loam library to the TreeLoader port.
type Loader struct {
	Repo *loam.TypedRepository[TreeMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[TreeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict repository at path.
func Open(path string) (*Loader, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tree directory: %w", err)
	}
	repo, err := loam.Init(abs,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open loam repository at %s: %w", abs, err)
	}
	return New(loam.NewTypedRepository[TreeMetadata](repo)), nil
}

// GetTree retrieves and decodes one tree document.
func (l *Loader) GetTree(id string) (*domain.Tree, error) {
	tree, _, err := l.get(context.Background(), id)
	return tree, err
}

// Describe returns the tree together with the Markdown body of its document.
func (l *Loader) Describe(ctx context.Context, id string) (*domain.Tree, string, error) {
	return l.get(ctx, id)
}

func (l *Loader) get(ctx context.Context, id string) (*domain.Tree, string, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		if l.missing(ctx, id) {
			return nil, "", fmt.Errorf("%w: %s", domain.ErrTreeNotFound, id)
		}
		return nil, "", fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	td, err := dialogue.DecodeDocument(doc.Data.raw())
	if err != nil {
		return nil, "", fmt.Errorf("tree %s: %w", id, err)
	}
	if td.ID != "" {
		td.ID = trimExtension(td.ID)
	}
	tree, err := td.Tree(trimExtension(doc.ID))
	if err != nil {
		return nil, "", err
	}
	return tree, strings.TrimSpace(doc.Content), nil
}

// missing reports whether id is absent from the repository listing.
func (l *Loader) missing(ctx context.Context, id string) bool {
	ids, err := l.list(ctx)
	if err != nil {
		return false
	}
	for _, known := range ids {
		if known == trimExtension(id) {
			return false
		}
	}
	return true
}

// ListTrees lists all trees in the repository.
func (l *Loader) ListTrees() ([]string, error) {
	return l.list(context.Background())
}

func (l *Loader) list(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: tree '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch reports the ids of tree documents that changed on disk.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
