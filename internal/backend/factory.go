// Package backend selects and constructs the persistence layer.
package backend

import (
	"fmt"
	"log/slog"

	"cardledger/internal/config"
	"cardledger/internal/services"
	"cardledger/internal/storage"
	"cardledger/internal/store/memory"
)

// Build creates the Store named by cfg.DataBackend.
func Build(cfg *config.Config, logger *slog.Logger) (services.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "memory":
		logger.Info("Initialized memory backend")
		return memory.New(), nil
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
