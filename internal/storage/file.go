package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// File stores every key in one JSON object at path. Writes go through a
// temp file and a rename so a crash never leaves a half-written document.
type File struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFile returns a File keeping its document at path on fs. The file
// and its directory are created on the first Set.
func NewFile(fs afero.Fs, path string) *File {
	return &File{fs: fs, path: path}
}

// Get returns the value under key, or ErrNotFound when the key or the
// whole file is missing.
func (f *File) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

// Set rewrites the document with value stored under key.
func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[key] = string(value)
	return f.write(doc)
}

// read returns the stored document; a missing file is an empty document.
func (f *File) read() (map[string]string, error) {
	doc := make(map[string]string)
	b, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) write(doc map[string]string) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(f.fs, dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = f.fs.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return f.fs.Rename(tmpName, f.path)
}
