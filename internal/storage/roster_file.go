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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// DefaultMaxBackups is how many .bak copies RosterFile keeps.
const DefaultMaxBackups = 14

// RosterFile stores the roster document in a JSON file. Every save first
// copies the current file to <path>.<unix-ms>.bak, then replaces the file
// atomically.
type RosterFile struct {
	path       string
	maxBackups int
	now        func() time.Time
}

// RosterFileOption configures a RosterFile.
type RosterFileOption func(*RosterFile)

// WithMaxBackups caps the number of kept backups; 0 keeps all of them.
func WithMaxBackups(n int) RosterFileOption {
	return func(f *RosterFile) { f.maxBackups = n }
}

// WithClock overrides the clock used to name backups.
func WithClock(now func() time.Time) RosterFileOption {
	return func(f *RosterFile) { f.now = now }
}

// NewRosterFile creates a backend over path.
func NewRosterFile(path string, opts ...RosterFileOption) *RosterFile {
	f := &RosterFile{path: path, maxBackups: DefaultMaxBackups, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the data file.
func (f *RosterFile) Path() string { return f.path }

func (f *RosterFile) Load(_ context.Context) (*RosterDocument, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading roster %s: %w", f.path, err)
	}
	var doc RosterDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: parse %s: %v", ErrUnreadable, f.path, err)
	}
	if doc.Agents == nil {
		doc.Agents = []RosterAgent{}
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	return &doc, true, nil
}

func (f *RosterFile) Save(_ context.Context, doc *RosterDocument) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating roster directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding roster: %w", err)
	}
	if err := f.backup(); err != nil {
		return err
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing roster %s: %w", f.path, err)
	}
	return f.rotate()
}

func (f *RosterFile) backup() error {
	current, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading roster for backup: %w", err)
	}
	name := f.path + "." + strconv.FormatInt(f.now().UnixMilli(), 10) + ".bak"
	if err := os.WriteFile(name, current, 0o644); err != nil {
		return fmt.Errorf("writing roster backup: %w", err)
	}
	return nil
}

// Backups lists existing backups, oldest first.
func (f *RosterFile) Backups() ([]string, error) {
	matches, err := filepath.Glob(f.path + ".*.bak")
	if err != nil {
		return nil, err
	}
	stamp := func(p string) int64 {
		s := strings.TrimSuffix(strings.TrimPrefix(p, f.path+"."), ".bak")
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	}
	sort.Slice(matches, func(i, j int) bool { return stamp(matches[i]) < stamp(matches[j]) })
	return matches, nil
}

func (f *RosterFile) rotate() error {
	if f.maxBackups <= 0 {
		return nil
	}
	backups, err := f.Backups()
	if err != nil {
		return err
	}
	for len(backups) > f.maxBackups {
		if err := os.Remove(backups[0]); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing old backup: %w", err)
		}
		backups = backups[1:]
	}
	return nil
}

var _ RosterBackend = (*RosterFile)(nil)
