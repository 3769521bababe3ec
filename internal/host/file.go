// Package host implements the document host backing a session with a file
// on disk.
package host

import (
	"fmt"
	"os"
	"path/filepath"
)

// File is a document stored as a single file on disk.
type File struct {
	path string
}

// NewFile creates a document host for the given file path.
func NewFile(path string) *File {
	return &File{
		path: path,
	}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Text reads the current document text.
func (f *File) Text() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading file %s: %w", f.path, err)
	}
	return string(data), nil
}

// Replace replaces the whole document text transactionally: the new
// content is written to a temporary file in the same directory, synced
// and renamed over the original. The previous content stays intact when
// any step fails.
func (f *File) Replace(text string) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeAndSync(tmp, text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temporary file: %w", err)
	}

	// Carry the permissions of the replaced file over, CreateTemp
	// defaults to a stricter mode.
	if info, err := os.Stat(f.path); err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing file %s: %w", f.path, err)
	}
	return nil
}

func writeAndSync(file *os.File, text string) error {
	if _, err := file.WriteString(text); err != nil {
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	return nil
}
