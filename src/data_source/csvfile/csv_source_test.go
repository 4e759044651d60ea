package csvfile

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"golden-cross/src/helpers"
	"golden-cross/src/logger"
	"golden-cross/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource() *CSVSource {
	return NewCSVSource(&models.MConfig{
		DataSource: models.MDataSourceConfig{CSVDir: "testdata"},
	}, logger.Nop())
}

func key(ticker string) models.MSeriesKey {
	return models.MSeriesKey{
		Ticker: ticker,
		Start:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchFlatExport(t *testing.T) {
	table, err := newTestSource().FetchDailyBars(context.Background(), key("AAPL"))
	require.NoError(t, err)

	assert.False(t, table.IsNested())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), table.Dates[0])

	closes, ok := table.Column(models.FieldClose)
	require.True(t, ok)
	assert.Equal(t, []float64{194.0, 194.3}, closes)
}

func TestFetchNestedExport(t *testing.T) {
	table, err := newTestSource().FetchDailyBars(context.Background(), key("MSFT"))
	require.NoError(t, err)

	assert.True(t, table.IsNested())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, models.MColumnKey{Field: "Close", Ticker: "MSFT"}, table.Columns[0])
	assert.Equal(t, []float64{413.5, 416.1}, table.Values[0])
}

func TestFetchMissingFile(t *testing.T) {
	_, err := newTestSource().FetchDailyBars(context.Background(), key("NOPE"))
	assert.True(t, helpers.IsNoData(err))
}

func TestFetchEmptyFile(t *testing.T) {
	_, err := newTestSource().FetchDailyBars(context.Background(), key("EMPTY"))
	assert.True(t, helpers.IsNoData(err))
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSource().FetchDailyBars(ctx, key("AAPL"))
	assert.True(t, helpers.IsFetchFailed(err))
}

func TestReadTableBlankCells(t *testing.T) {
	in := "Date,Close,Volume\n2024-06-03 00:00:00-04:00,10.5,\nbad,1,2\n"
	table, err := readTable("X", strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 1, table.Len())
	assert.Equal(t, 10.5, table.Values[0][0])
	assert.True(t, math.IsNaN(table.Values[1][0]))
}
