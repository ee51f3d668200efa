package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// WorkspacePrefix names every per-request temp directory; the janitor
// matches on it.
const WorkspacePrefix = "imgpdf-"

// Workspace is a temporary directory owning every file of one conversion.
type Workspace struct {
	dir string

	once     sync.Once
	closeErr error
}

// NewWorkspace creates a fresh directory under baseDir, or under the OS temp
// dir when baseDir is empty.
func NewWorkspace(baseDir string) (*Workspace, error) {
	if baseDir != "" {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			return nil, fmt.Errorf("create workspace base: %w", err)
		}
	}
	dir, err := os.MkdirTemp(baseDir, WorkspacePrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// Save writes r under the base name of name and returns the file path.
func (w *Workspace) Save(name string, r io.Reader) (string, error) {
	base := safeName(name)
	if base == "" {
		return "", errors.New("upload has no file name")
	}

	path := filepath.Join(w.dir, base)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", base, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", base, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", base, err)
	}
	return path, nil
}

// Close removes the workspace and everything in it. Safe to call more than once.
func (w *Workspace) Close() error {
	w.once.Do(func() {
		w.closeErr = os.RemoveAll(w.dir)
	})
	return w.closeErr
}

// safeName strips directory components, including Windows-style ones that
// browsers sometimes send.
func safeName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
