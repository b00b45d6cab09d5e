package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores all keys in one JSON object file. Values are kept as strings,
// so any bytes round-trip, including snapshots that are not valid JSON.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// CorruptFileError is returned by FileKV.Get when the store file cannot be
// parsed. Set and Delete move such a file aside before writing.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("parse store file %s: %s", e.Path, e.Err)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Err
}

// OpenFile returns a file-backed store. The file is created on first write.
func OpenFile(path string) (*FileKV, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileKV{path: path}, nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return []byte(v), nil
}

func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.readForWrite()
	if err != nil {
		return err
	}
	values[key] = string(value)
	return f.write(values)
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.readForWrite()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *FileKV) Close() error { return nil }

// SetAside renames an unparsable store file to its .corrupt name and returns
// the new path. It returns "" when the file is missing or parses.
func (f *FileKV) SetAside() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := f.read()
	var cerr *CorruptFileError
	if !errors.As(err, &cerr) {
		return "", err
	}
	return f.setAside()
}

func (f *FileKV) setAside() (string, error) {
	backup := f.path + CorruptSuffix
	if err := os.Rename(f.path, backup); err != nil {
		return "", fmt.Errorf("set aside store file: %w", err)
	}
	return backup, nil
}

// readForWrite is read, except that an unparsable file is set aside and
// replaced by an empty store.
func (f *FileKV) readForWrite() (map[string]string, error) {
	values, err := f.read()
	var cerr *CorruptFileError
	if errors.As(err, &cerr) {
		if _, err := f.setAside(); err != nil {
			return nil, err
		}
		return make(map[string]string), nil
	}
	return values, err
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &CorruptFileError{Path: f.path, Err: err}
	}
	return values, nil
}

// write replaces the store file via a temp file and rename.
func (f *FileKV) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store file: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close store file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return fmt.Errorf("chmod store file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		cleanup()
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
