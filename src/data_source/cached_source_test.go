package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"golden-cross/src/helpers"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name  string
	calls int
	table *models.MPriceTable
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error) {
	f.calls++
	return f.table, f.err
}

func testKey() models.MSeriesKey {
	return models.MSeriesKey{
		Ticker: "AAPL",
		Start:  time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCachedSourceReusesSuccess(t *testing.T) {
	src := &fakeSource{name: "fake", table: models.NewFlatTable("AAPL", []models.MPriceBar{
		{Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), Close: 192.3},
	})}
	cached := NewCachedSource(src, storage.NewMemoryCache(), logger.Nop())

	first, hit, err := cached.Fetch(context.Background(), testKey())
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cached.Fetch(context.Background(), testKey())
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls)
}

func TestCachedSourceReusesNoData(t *testing.T) {
	src := &fakeSource{name: "fake", err: helpers.NewNoDataFound("AAPL")}
	cached := NewCachedSource(src, storage.NewMemoryCache(), logger.Nop())

	_, err := cached.FetchDailyBars(context.Background(), testKey())
	assert.True(t, helpers.IsNoData(err))

	_, hit, err := cached.Fetch(context.Background(), testKey())
	assert.True(t, helpers.IsNoData(err))
	assert.True(t, hit)
	assert.Equal(t, 1, src.calls)
}

func TestCachedSourceRetriesFailure(t *testing.T) {
	src := &fakeSource{name: "fake", err: helpers.NewFetchFailed("AAPL", errors.New("bad status: 429"))}
	cache := storage.NewMemoryCache()
	cached := NewCachedSource(src, cache, logger.Nop())

	for i := 0; i < 2; i++ {
		_, err := cached.FetchDailyBars(context.Background(), testKey())
		assert.True(t, helpers.IsFetchFailed(err))
	}
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 0, cache.Len())
}

func TestCachedSourceWrapsUnclassifiedErrors(t *testing.T) {
	src := &fakeSource{name: "fake", err: errors.New("boom")}
	cached := NewCachedSource(src, storage.NewMemoryCache(), logger.Nop())

	_, err := cached.FetchDailyBars(context.Background(), testKey())
	assert.True(t, helpers.IsFetchFailed(err))
	assert.Equal(t, "boom", helpers.FetchFailureCause(err))
	assert.Equal(t, "fake", cached.Name())
}
