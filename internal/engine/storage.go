package engine

import (
	"fmt"

	"github.com/sadopc/multitimer/internal/config"
	"github.com/sadopc/multitimer/internal/store"
)

// Storage is a persistence backend the engine and CLI can both use.
type Storage interface {
	store.Gateway
	store.HistoryReader
	Close() error
}

// OpenStorage opens the backend selected by cfg.
func OpenStorage(cfg *config.Config) (Storage, error) {
	path := cfg.StoragePath()
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fs, err := store.NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		return fs, nil
	case config.BackendSQLite, "":
		db, err := store.New(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
