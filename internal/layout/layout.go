// Package layout prepares the runtime directories the forex bot expects to
// find in its working directory.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

const (
	ChartsDir = "charts" // Rendered signal charts.
	DataDir   = "data"   // Journal and balance files.

	dirPerms = 0o755
)

var (
	ErrNotDirectory = errors.New("path exists and is not a directory")
	ErrOutsideRoot  = errors.New("path escapes the working directory")
	ErrEmptyPath    = errors.New("empty path")
)

// FilesystemError reports a runtime directory that could not be prepared.
type FilesystemError struct {
	Path string
	Op   string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Result is the outcome for a single directory.
type Result struct {
	Path    string
	Created bool
}

// RuntimeLayout is the ordered set of directories required at startup,
// relative to Root.
type RuntimeLayout struct {
	Root  string
	Paths []string
}

// Default returns the charts/data layout rooted at root.
func Default(root string) RuntimeLayout {
	return RuntimeLayout{
		Root:  root,
		Paths: []string{ChartsDir, DataDir},
	}
}

// Dir joins name onto the layout root.
func (l RuntimeLayout) Dir(name string) string {
	return filepath.Join(l.Root, name)
}

// Ensure creates every directory of the layout. See EnsureLayout.
func (l RuntimeLayout) Ensure() ([]Result, error) {
	return EnsureLayout(l.Root, l.Paths...)
}

// EnsureLayout creates each of paths under root, in order, including missing
// parents. Directories that already exist are left untouched. Processing
// stops at the first failure, which is returned as a *FilesystemError.
func EnsureLayout(root string, paths ...string) ([]Result, error) {
	for _, p := range paths {
		if err := validate(p); err != nil {
			return nil, &FilesystemError{Path: p, Op: "validate", Err: err}
		}
	}

	results := make([]Result, 0, len(paths))
	for _, p := range paths {
		created, err := ensureDir(filepath.Join(root, p))
		if err != nil {
			return results, &FilesystemError{Path: p, Op: "mkdir", Err: err}
		}
		results = append(results, Result{Path: p, Created: created})
	}

	return results, nil
}

func ensureDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return false, ErrNotDirectory
		}
		return false, nil
	case errors.Is(err, syscall.ENOTDIR):
		// a parent segment is a regular file
		return false, ErrNotDirectory
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	if err := os.MkdirAll(dir, dirPerms); err != nil {
		if errors.Is(err, syscall.ENOTDIR) {
			return false, ErrNotDirectory
		}
		return false, err
	}

	return true, nil
}

func validate(p string) error {
	if strings.TrimSpace(p) == "" {
		return ErrEmptyPath
	}
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" || strings.HasPrefix(p, string(filepath.Separator)) {
		return ErrOutsideRoot
	}
	clean := filepath.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return ErrOutsideRoot
	}
	return nil
}
