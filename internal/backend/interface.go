// Package backend builds the key-value store selected by DATA_BACKEND.
package backend

import (
	"context"

	"speseledger/internal/storage"
)

// BackendType names a storage backend.
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid reports whether bt is a known backend.
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	}
	return false
}

// Durable reports whether values outlive the process.
func (bt BackendType) Durable() bool {
	return bt == FileBackend || bt == SQLiteBackend
}

// Config selects and locates a backend.
type Config struct {
	Type         BackendType
	FilePath     string
	SQLiteDBPath string
}

// CleanupFunc releases what a backend holds open.
type CleanupFunc func() error

// BackendResult is an opened store plus its optional cleanup.
type BackendResult struct {
	Backend storage.KV
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory opens backends.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
