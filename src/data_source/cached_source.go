package datasource

import (
	"context"

	"golden-cross/src/helpers"
	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
)

// CachedSource memoizes FetchDailyBars per (ticker, start, end). Successful
// tables and "no data" outcomes are kept for the life of the cache; fetch
// failures are not, so a repeated request retries the provider.
type CachedSource struct {
	Source interfaces.IDataSource
	Cache  interfaces.ISeriesCache
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCachedSource(source interfaces.IDataSource, cache interfaces.ISeriesCache, log *logger.Logger) *CachedSource {
	return &CachedSource{
		Source: source,
		Cache:  cache,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (c *CachedSource) Name() string {
	return c.Source.Name()
}

// -----------------------------------------------------------------------------

func (c *CachedSource) FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error) {
	table, _, err := c.Fetch(ctx, key)
	return table, err
}

// -----------------------------------------------------------------------------

// Fetch is FetchDailyBars that also reports whether the outcome came from
// the cache. A failing cache backend degrades to a direct fetch.
func (c *CachedSource) Fetch(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, bool, error) {
	table, found, err := c.Cache.Lookup(key)
	if err != nil {
		c.Logger.Warning("Cache lookup %s failed: %v", key, err)
	} else if found {
		c.Logger.Debug("Cache hit: %s", key)
		if table == nil {
			return nil, true, helpers.NewNoDataFound(key.Ticker)
		}
		return table, true, nil
	}

	table, err = c.Source.FetchDailyBars(ctx, key)
	switch {
	case err == nil:
		c.store(key, table)
	case helpers.IsNoData(err):
		c.store(key, nil)
	default:
		return nil, false, helpers.AsAdapterError(key.Ticker, err)
	}

	return table, false, err
}

// -----------------------------------------------------------------------------

func (c *CachedSource) store(key models.MSeriesKey, table *models.MPriceTable) {
	if err := c.Cache.Store(key, table); err != nil {
		c.Logger.Warning("Cache store %s failed: %v", key, err)
	}
}
