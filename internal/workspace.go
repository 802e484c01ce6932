package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Workspace is the private temp directory of one Job. Every temporary file
// a Job creates lives inside it.
type Workspace struct {
	Dir string
}

var (
	activeMu         sync.Mutex
	activeWorkspaces = make(map[string]struct{})
)

// NewWorkspace creates a unique directory under tempDir for jobID
func NewWorkspace(tempDir, jobID string) (*Workspace, error) {
	if err := EnsureDirs(tempDir); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	dir, err := os.MkdirTemp(tempDir, "job-"+jobID+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating job workspace: %w", err)
	}

	activeMu.Lock()
	activeWorkspaces[dir] = struct{}{}
	activeMu.Unlock()

	return &Workspace{Dir: dir}, nil
}

// Path returns name joined to the workspace directory
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Cleanup removes the workspace and everything in it
func (w *Workspace) Cleanup() error {
	activeMu.Lock()
	delete(activeWorkspaces, w.Dir)
	activeMu.Unlock()

	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("removing workspace %s: %w", w.Dir, err)
	}
	return nil
}

// CleanupWorkspaces removes every workspace that has not been cleaned up yet.
// Used on shutdown when jobs cannot unwind on their own.
func CleanupWorkspaces() error {
	activeMu.Lock()
	dirs := make([]string, 0, len(activeWorkspaces))
	for dir := range activeWorkspaces {
		dirs = append(dirs, dir)
	}
	activeWorkspaces = make(map[string]struct{})
	activeMu.Unlock()

	var firstErr error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("removing workspace %s: %w", dir, err)
		}
	}
	return firstErr
}

// activeWorkspaceCount is the number of live workspaces in this process
func activeWorkspaceCount() int {
	activeMu.Lock()
	defer activeMu.Unlock()
	return len(activeWorkspaces)
}
