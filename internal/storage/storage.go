// Package storage persists the workspace document and the shared roster
// document. Workspace stores are read and written whole; a store that can
// also write individual cells implements CellStore.
package storage

import (
	"context"
	"errors"

	"github.com/alexanderramin/st8/internal/domain"
)

// ErrUnreadable marks a persisted document that exists but cannot be
// parsed. Callers degrade to an empty document.
var ErrUnreadable = errors.New("document unreadable")

// Store loads and saves the workspace document.
type Store interface {
	Load(ctx context.Context) (*domain.Workspace, error)
	Save(ctx context.Context, ws *domain.Workspace) error
	Close() error
}

// Cell is one planning cell write. A blank Code clears the cell.
type Cell struct {
	Year    int
	AgentID string
	Date    string
	Code    string
}

// CellStore is implemented by stores able to persist individual cells
// without rewriting the whole document.
type CellStore interface {
	SaveCells(ctx context.Context, cells []Cell) error
}
