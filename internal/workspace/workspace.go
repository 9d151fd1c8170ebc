// Package workspace manages request-scoped scratch directories for the
// extraction tool. Every acquisition is released exactly once; callers defer
// Release immediately so cleanup happens on every exit path.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/iconidentify/grabba/internal/domain"
)

// dirPrefix namespaces our scratch directories inside the temp root so the
// reaper never touches anything else.
const dirPrefix = "grabba-"

// Manager creates and removes transient workspaces under a single root.
type Manager struct {
	root   string
	logger *slog.Logger
}

// NewManager creates a workspace manager. An empty root means the system
// temp directory.
func NewManager(root string, logger *slog.Logger) (*Manager, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkspace, err)
	}

	return &Manager{
		root:   root,
		logger: logger,
	}, nil
}

// Root returns the directory workspaces are created under.
func (m *Manager) Root() string {
	return m.root
}

// Acquire creates a uniquely named scratch directory. Concurrent requests
// never collide: each directory gets a random UUID suffix.
func (m *Manager) Acquire() (*Workspace, error) {
	dir := filepath.Join(m.root, dirPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkspace, err)
	}

	return &Workspace{
		root:   dir,
		logger: m.logger,
	}, nil
}

// Workspace is one request's scratch directory. It is exclusively owned by
// the call that acquired it and never shared across requests.
type Workspace struct {
	root   string
	logger *slog.Logger

	mu       sync.Mutex
	released bool
}

// Root returns the workspace directory path.
func (w *Workspace) Root() string {
	return w.root
}

// Path joins name onto the workspace root.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// Release recursively removes the directory and everything in it. Idempotent
// and never fails the caller: removal errors are logged and swallowed,
// cleanup is best-effort once the response is already decided.
func (w *Workspace) Release() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.released {
		return
	}
	w.released = true

	if err := os.RemoveAll(w.root); err != nil {
		w.logger.Warn("workspace cleanup failed", "dir", w.root, "error", err)
	}
}

// Released reports whether Release has run.
func (w *Workspace) Released() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.released
}
