// Package dataapi resolves version and program definitions. The local
// implementation reads exported project JSON from disk; a remote project
// service can replace it behind the same interface.
package dataapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// ErrNotFound is returned when a version or program does not exist.
var ErrNotFound = errors.New("dataapi: not found")

// Local serves definitions from a directory laid out as
// <dir>/versions/<id>.json and <dir>/programs/<id>.json. Files are parsed
// once and cached; definitions are immutable per deployment.
type Local struct {
	dir string

	mu       sync.RWMutex
	versions map[string]*model.Version
	programs map[string]*model.Program
}

// NewLocal creates a local data API rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{
		dir:      dir,
		versions: make(map[string]*model.Version),
		programs: make(map[string]*model.Program),
	}
}

// GetVersion returns the version definition for id.
func (l *Local) GetVersion(_ context.Context, versionID string) (*model.Version, error) {
	l.mu.RLock()
	version, ok := l.versions[versionID]
	l.mu.RUnlock()
	if ok {
		return version, nil
	}

	version = &model.Version{}
	if err := l.load(filepath.Join("versions", versionID+".json"), version); err != nil {
		return nil, err
	}
	if version.ID == "" {
		version.ID = versionID
	}

	l.mu.Lock()
	l.versions[versionID] = version
	l.mu.Unlock()
	return version, nil
}

// GetProgram returns the program definition for id.
func (l *Local) GetProgram(_ context.Context, programID string) (*model.Program, error) {
	l.mu.RLock()
	program, ok := l.programs[programID]
	l.mu.RUnlock()
	if ok {
		return program, nil
	}

	program = &model.Program{}
	if err := l.load(filepath.Join("programs", programID+".json"), program); err != nil {
		return nil, err
	}
	if program.ID == "" {
		program.ID = programID
	}

	l.mu.Lock()
	l.programs[programID] = program
	l.mu.Unlock()
	return program, nil
}

func (l *Local) load(rel string, out any) error {
	data, err := os.ReadFile(filepath.Join(l.dir, rel))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", rel, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", rel, err)
	}
	return nil
}
