package storage

import (
	"fmt"
	"time"

	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
)

// NewSeriesCache builds the backend named by cache.backend.
func NewSeriesCache(cfg *models.MConfig, log *logger.Logger) (interfaces.ISeriesCache, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return NewMemoryCache(), nil
	case "sqlite":
		return NewSQLiteCache(cfg, log)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// -----------------------------------------------------------------------------

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
