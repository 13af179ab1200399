package render

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TemplateStore resolves a template reference to its canvas description.
type TemplateStore interface {
	Get(ctx context.Context, templateID string) (map[string]any, error)
}

// FileTemplateStore reads templates from <dir>/<id>.json.
type FileTemplateStore struct {
	dir string
}

// NewFileTemplateStore creates a store over a directory of template JSON files.
func NewFileTemplateStore(dir string) *FileTemplateStore {
	return &FileTemplateStore{dir: dir}
}

// Get loads and parses a template canvas by ID.
func (s *FileTemplateStore) Get(_ context.Context, templateID string) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, templateID+".json"))
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", templateID, err)
	}
	var canvas map[string]any
	if err := json.Unmarshal(data, &canvas); err != nil {
		return nil, fmt.Errorf("template %q: invalid canvas: %w", templateID, err)
	}
	return canvas, nil
}
