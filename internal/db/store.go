package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/VladimirMalevanik/discy/internal/logger"
)

var ErrNotFound = errors.New("db: key not found")

// Store is the opaque key/value service the bot persists into.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// NewStore opens the backend named by cfg.Backend.
func NewStore(ctx context.Context, cfg Config, log *logger.Logger) (Store, error) {
	log.Info("opening store", "store", cfg.String())
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendMySQL, BackendPostgres, BackendSQLite:
		s, err := OpenGormStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("db: unknown backend %q", cfg.Backend)
}
