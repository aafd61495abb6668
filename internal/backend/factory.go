package backend

import (
	"context"
	"fmt"

	"speseledger/internal/ledger"
	applog "speseledger/internal/log"
	"speseledger/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case FileBackend:
		res, err = f.createFileBackend(config)
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(config)
	case MemoryBackend:
		res = &BackendResult{Backend: storage.NewMemory()}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.Type.Durable() {
		args := []any{applog.FieldBackend, config.Type.String(), applog.FieldPath, config.Location()}
		if db, ok := res.Backend.(*storage.SQLite); ok {
			args = append(args, "schema_version", db.SchemaVersion())
		}
		f.logger.DebugContext(ctx, "Backend ready", args...)
	} else {
		f.logger.WarnContext(ctx, "Memory backend selected, changes will not survive this process", applog.FieldBackend, config.Type.String())
	}
	return res, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	// Plain record arrays written by earlier versions are read as the expenses key.
	store, err := storage.NewFile(config.FilePath, storage.WithLegacyKey(ledger.ExpensesKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger file: %w", err)
	}
	return &BackendResult{Backend: store}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	db, err := storage.NewSQLite(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	return &BackendResult{
		Backend: db,
		Cleanup: db.Close,
	}, nil
}
