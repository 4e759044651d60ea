package interfaces

import (
	"context"

	"golden-cross/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource interface for fetching daily prices from a market-data provider.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDailyBars returns the daily rows for key.Ticker within
	// [key.Start, key.End], ascending and unique per date. The table may be
	// flat or nested. Errors are *helpers.NoDataFoundError when the provider
	// has nothing and *helpers.FetchFailedError for everything else.
	FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error)
}

// -----------------------------------------------------------------------------
// ISourceCatalog lists the registered providers and the one serving requests.
// -----------------------------------------------------------------------------

type ISourceCatalog interface {
	Names() []string
	Active() IDataSource
}
