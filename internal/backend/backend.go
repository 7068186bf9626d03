// Package backend selects and constructs the record store from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"hisaab/internal/config"
	"hisaab/internal/store"
	"hisaab/internal/store/csvfile"
	"hisaab/internal/store/memory"
	"hisaab/internal/store/sqlite"
)

type Type string

const (
	CSV    Type = "csv"
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) IsValid() bool {
	switch t {
	case CSV, SQLite, Memory:
		return true
	default:
		return false
	}
}

// Open builds the store named by cfg.DataBackend. The caller owns the
// returned store and must Close it.
func Open(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch Type(cfg.DataBackend) {
	case CSV:
		logger.Info("Using csv record store", "dir", cfg.DataDir, "shared", cfg.CSVShared)
		return csvfile.New(cfg.DataDir, cfg.CSVShared), nil

	case SQLite:
		st, err := sqlite.New(cfg.SQLiteDB)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Using sqlite record store", "path", cfg.SQLiteDB)
		return st, nil

	case Memory:
		logger.Info("Using in-memory record store")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
