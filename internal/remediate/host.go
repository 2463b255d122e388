package remediate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrReadOnly is returned when the document cannot be written.
	ErrReadOnly = errors.New("file is read-only")
	// ErrStaleSpan is returned when the document changed after it was scanned.
	ErrStaleSpan = errors.New("file changed since it was scanned")
)

// Host is the environment that owns documents and files. The engine never
// touches storage directly; every read and write goes through a Host.
type Host interface {
	// ReadFile returns the file content, or an error wrapping
	// fs.ErrNotExist when the file does not exist.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the whole file.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// Writable returns ErrReadOnly when path cannot be edited.
	Writable(path string) error
	// ApplyEdits applies edits computed against base to the document at
	// path. It must return ErrStaleSpan if the document no longer equals
	// base, and ErrReadOnly if it cannot be written.
	ApplyEdits(path, base string, edits []Edit) error
}

// OSHost is a Host backed by the local filesystem.
type OSHost struct{}

func (OSHost) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSHost) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSHost) Writable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%s: %w", path, ErrReadOnly)
		}
		return err
	}
	return f.Close()
}

func (h OSHost) ApplyEdits(path, base string, edits []Edit) error {
	if err := h.Writable(path); err != nil {
		return err
	}
	cur, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if string(cur) != base {
		return fmt.Errorf("%s: %w", path, ErrStaleSpan)
	}
	out, err := ApplyEdits(base, edits...)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), info.Mode().Perm())
}
