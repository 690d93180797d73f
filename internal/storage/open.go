package storage

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Open initializes the configured storage backend.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Adapter, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("storage path is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		return openFile(cfg.Path, log)
	case "sqlite", "sqlite3":
		return openSQLite(ctx, cfg.Path, log)
	default:
		return nil, errors.New("unknown storage driver: " + cfg.Driver)
	}
}
