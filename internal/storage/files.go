package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// AppendFile is a flat text file that is only ever appended to. The file is
// opened per write so every record is on disk before the next order.
type AppendFile struct {
	path string
}

func NewAppendFile(path string) *AppendFile {
	return &AppendFile{path: path}
}

func (f *AppendFile) Path() string {
	return f.path
}

func (f *AppendFile) Append(text string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := fh.WriteString(text); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// Reset replaces the file content with text.
func (f *AppendFile) Reset(text string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(text), 0o644)
}

// LoadOrderIDs reads a comma-separated id store. A missing file means the
// store was purged and yields an empty set.
func LoadOrderIDs(path string) (map[string]struct{}, error) {
	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := map[string]struct{}{}
	for _, id := range strings.Split(string(blob), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out, nil
}
