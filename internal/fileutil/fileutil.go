// Package fileutil provides file and path helpers shared by the pipeline stages.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath   = errors.New("path cannot be empty")
	ErrSameFile    = errors.New("source and destination are the same file")
	ErrNotRegular  = errors.New("not a regular file")
	ErrInvalidName = errors.New("name contains path separator or null byte")
)

// WriteFileAtomic writes data to path through a temp file and rename, so a
// reader never observes a half-written file. perm is applied after the rename
// because atomic.WriteFile keeps the temp file's mode on new files.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return WriteReaderAtomic(path, bytes.NewReader(data), perm)
}

// WriteReaderAtomic is WriteFileAtomic for streamed content.
func WriteReaderAtomic(path string, r io.Reader, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := atomic.WriteFile(path, r); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	return nil
}

// CopyFile copies a regular file from src to dst atomically.
func CopyFile(src, dst string) error {
	if src == "" || dst == "" {
		return ErrEmptyPath
	}
	if src == dst {
		return ErrSameFile
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, src)
	}

	f, err := os.Open(src) // #nosec G304 -- pipeline-owned path
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteReaderAtomic(dst, f, info.Mode().Perm())
}

// RemoveIfExists deletes path. A missing file is not an error; the returned
// bool reports whether something was actually removed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ValidateName checks that name can be used as a single path element.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyPath
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "tickets" -> false (name)
//   - "./tickets.yaml" -> true (relative path)
//   - "/etc/ticketpdf/prod.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
