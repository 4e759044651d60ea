package interfaces

import "golden-cross/src/models"

// -----------------------------------------------------------------------------
// ISeriesCache stores fetch outcomes for the life of the process.
// -----------------------------------------------------------------------------

type ISeriesCache interface {

	// Lookup returns the stored table for key. found is false on a miss.
	// A stored empty table (nil) records a "no data" outcome.
	Lookup(key models.MSeriesKey) (table *models.MPriceTable, found bool, err error)

	// -----------------------------------------------------------------------------

	// Store records the outcome for key. table may be nil for "no data".
	Store(key models.MSeriesKey, table *models.MPriceTable) error

	// -----------------------------------------------------------------------------

	// Len returns the number of stored keys.
	Len() int

	// -----------------------------------------------------------------------------

	// Close releases backend resources
	Close() error
}
