package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/parley/pkg/domain"
)

// AssignmentStore keeps one JSON file per character identity.
type AssignmentStore struct {
	BasePath string
}

// NewAssignmentStore creates a store rooted at basePath.
// If basePath is empty, it defaults to ".parley/assignments".
func NewAssignmentStore(basePath string) *AssignmentStore {
	if basePath == "" {
		basePath = filepath.Join(".parley", "assignments")
	}
	return &AssignmentStore{BasePath: basePath}
}

// Save persists the assignment.
func (s *AssignmentStore) Save(ctx context.Context, a *domain.Assignment) error {
	if a == nil || a.Identity() == "" {
		return fmt.Errorf("assignment identity cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure assignment directory: %w", err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal assignment: %w", err)
	}

	if err := os.WriteFile(s.path(a.Identity()), data, 0644); err != nil {
		return fmt.Errorf("failed to write assignment file: %w", err)
	}
	return nil
}

// Load reads the assignment of identity.
func (s *AssignmentStore) Load(ctx context.Context, identity string) (*domain.Assignment, error) {
	if identity == "" {
		return nil, fmt.Errorf("identity cannot be empty")
	}

	data, err := os.ReadFile(s.path(identity))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssignmentNotFound, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment file: %w", err)
	}

	a := domain.NewAssignment(identity, "")
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
	}
	return a, nil
}

// Delete removes the assignment file. Deleting a missing record is not an error.
func (s *AssignmentStore) Delete(ctx context.Context, identity string) error {
	err := os.Remove(s.path(identity))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete assignment file: %w", err)
	}
	return nil
}

func (s *AssignmentStore) path(identity string) string {
	return filepath.Join(s.BasePath, filepath.Base(identity)+".json")
}
