package storage

import (
	"sync"

	"golden-cross/src/models"
)

// MemoryCache keeps fetch outcomes in a map for the life of the process.
type MemoryCache struct {
	entries map[string]*models.MPriceTable
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*models.MPriceTable),
	}
}

// -----------------------------------------------------------------------------

func (m *MemoryCache) Lookup(key models.MSeriesKey) (*models.MPriceTable, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, found := m.entries[key.String()]
	return table, found, nil
}

// -----------------------------------------------------------------------------

func (m *MemoryCache) Store(key models.MSeriesKey, table *models.MPriceTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key.String()] = table
	return nil
}

// -----------------------------------------------------------------------------

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// -----------------------------------------------------------------------------

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*models.MPriceTable)
	return nil
}
