package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	applog "speseledger/internal/log"
)

// File is a KV kept as one JSON object document on disk, {"key": value, ...}.
// Every Put rewrites the document through a temp file and rename.
type File struct {
	mu        sync.Mutex
	path      string
	legacyKey string
}

// FileOption configures a File store.
type FileOption func(*File)

// WithLegacyKey exposes a document whose top level is a JSON array as the
// value of key. Such a document is upgraded to the object form on first Put.
func WithLegacyKey(key string) FileOption {
	return func(f *File) {
		f.legacyKey = key
	}
}

func NewFile(path string, opts ...FileOption) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f := &File{path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Get implements Reader. A document that cannot be decoded yields ErrCorrupt.
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readLocked()
	if err != nil {
		return nil, false, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements Writer. A corrupt document is replaced.
func (f *File) Put(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %s: value is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readLocked()
	if errors.Is(err, ErrCorrupt) {
		applog.FromContext(ctx).WithComponent(applog.ComponentStorage).With(applog.FieldPath, f.path).WarnContext(ctx, "Overwriting corrupt data file",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeCorrupt).ToSlice()...)
		doc = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}
	doc[key] = json.RawMessage(append([]byte(nil), value...))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	data = append(data, '\n')

	if err := f.writeAtomic(data); err != nil {
		return err
	}
	applog.FromContext(ctx).WithComponent(applog.ComponentStorage).DebugContext(ctx, "Value saved to data file",
		applog.FieldKey, key,
		"bytes", len(value),
		applog.FieldPath, f.path)
	return nil
}

func (f *File) readLocked() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	switch trimmed[0] {
	case '[':
		if f.legacyKey == "" || !json.Valid(trimmed) {
			return nil, fmt.Errorf("%w: unexpected JSON array in %s", ErrCorrupt, f.path)
		}
		return map[string]json.RawMessage{f.legacyKey: trimmed}, nil
	case '{':
		doc := map[string]json.RawMessage{}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format in %s", ErrCorrupt, f.path)
	}
}

func (f *File) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
