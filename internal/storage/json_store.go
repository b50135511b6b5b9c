package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/natefinch/atomic"
)

// JSONStore keeps the workspace in a single JSON file
// ({agents, groupMeta, planning}).
type JSONStore struct {
	path string
}

// NewJSONStore creates a store backed by path. The file is created on the
// first save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

// Load reads the document. A missing file yields an empty workspace; an
// unparsable one yields an empty workspace and ErrUnreadable.
func (s *JSONStore) Load(_ context.Context) (*domain.Workspace, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewWorkspace(), nil
		}
		return domain.NewWorkspace(), fmt.Errorf("%w: read %s: %v", ErrUnreadable, s.path, err)
	}
	ws := domain.NewWorkspace()
	if len(bytes.TrimSpace(data)) == 0 {
		return ws, nil
	}
	if err := json.Unmarshal(data, ws); err != nil {
		return domain.NewWorkspace(), fmt.Errorf("%w: parse %s: %v", ErrUnreadable, s.path, err)
	}
	return ws, nil
}

// Save replaces the file atomically.
func (s *JSONStore) Save(_ context.Context, ws *domain.Workspace) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating workspace directory: %w", err)
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workspace: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing workspace %s: %w", s.path, err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

var _ Store = (*JSONStore)(nil)
