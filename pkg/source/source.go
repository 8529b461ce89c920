// Package source abstracts where file content comes from.
package source

import (
	"fmt"
	"io/fs"
	"os"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// Sizer is implemented by sources that can report a file's size without
// reading it.
type Sizer interface {
	Size(path string) (int64, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Size implements Sizer.
func (f *FilesystemSource) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// MemorySource serves content held in memory, keyed by path. It is never
// modified after NewMemory and is safe for concurrent use.
type MemorySource struct {
	files map[string][]byte
}

// NewMemory creates a source over the given files. The map is copied.
func NewMemory(files map[string]string) *MemorySource {
	m := &MemorySource{files: make(map[string][]byte, len(files))}
	for path, content := range files {
		m.files[path] = []byte(content)
	}
	return m
}

// Read implements ContentSource.
func (m *MemorySource) Read(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return content, nil
}

// Size implements Sizer.
func (m *MemorySource) Size(path string) (int64, error) {
	content, err := m.Read(path)
	if err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}
