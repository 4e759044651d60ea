package storage

import (
	"math"
	"testing"
	"time"

	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleKey(ticker string) models.MSeriesKey {
	return models.MSeriesKey{
		Ticker: ticker,
		Start:  time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func sampleTable() *models.MPriceTable {
	return &models.MPriceTable{
		Symbol: "AAPL",
		Dates: []time.Time{
			time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		},
		Columns: []models.MColumnKey{{Field: "Close", Ticker: "AAPL"}, {Field: "Volume", Ticker: "AAPL"}},
		Values:  [][]float64{{191.3, 192.3}, {math.NaN(), 75000000}},
	}
}

func backends(t *testing.T) map[string]interfaces.ISeriesCache {
	t.Helper()

	cfg := &models.MConfig{Cache: models.MCacheConfig{Backend: "sqlite", SQLiteDSN: ":memory:"}}
	sqlite, err := NewSeriesCache(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]interfaces.ISeriesCache{
		"memory": NewMemoryCache(),
		"sqlite": sqlite,
	}
}

func TestCacheMissThenHit(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := sampleKey("AAPL")

			_, found, err := cache.Lookup(key)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, cache.Store(key, sampleTable()))
			assert.Equal(t, 1, cache.Len())

			got, found, err := cache.Lookup(key)
			require.NoError(t, err)
			require.True(t, found)

			want := sampleTable()
			assert.Equal(t, want.Symbol, got.Symbol)
			assert.Equal(t, want.Dates, got.Dates)
			assert.Equal(t, want.Columns, got.Columns)
			assert.Equal(t, want.Values[0], got.Values[0])
			assert.True(t, math.IsNaN(got.Values[1][0]))
			assert.Equal(t, 75000000.0, got.Values[1][1])
		})
	}
}

func TestCacheStoresNoData(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := sampleKey("ZZZZZZ")
			require.NoError(t, cache.Store(key, nil))

			table, found, err := cache.Lookup(key)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Nil(t, table)
		})
	}
}

func TestCacheKeysAreDistinct(t *testing.T) {
	for name, cache := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := sampleKey("AAPL")
			b := a
			b.Start = b.Start.AddDate(0, 0, 1)

			require.NoError(t, cache.Store(a, sampleTable()))
			require.NoError(t, cache.Store(a, sampleTable()))

			_, found, err := cache.Lookup(b)
			require.NoError(t, err)
			assert.False(t, found)
			assert.Equal(t, 1, cache.Len())
		})
	}
}

func TestNewSeriesCacheUnknownBackend(t *testing.T) {
	_, err := NewSeriesCache(&models.MConfig{Cache: models.MCacheConfig{Backend: "redis"}}, logger.Nop())
	assert.Error(t, err)
}
