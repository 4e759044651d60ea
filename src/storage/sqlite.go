package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"golden-cross/src/helpers"
	"golden-cross/src/logger"
	"golden-cross/src/models"

	_ "modernc.org/sqlite"
)

// SQLiteCache keeps fetch outcomes in a SQLite table. The default DSN is a
// shared in-memory database, so nothing outlives the process.
type SQLiteCache struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// cachedTable is the stored payload. NaN does not survive JSON, so missing
// cells travel as null.
type cachedTable struct {
	Symbol  string              `json:"symbol"`
	Dates   []string            `json:"dates"`
	Columns []models.MColumnKey `json:"columns"`
	Values  [][]*float64        `json:"values"`
}

// -----------------------------------------------------------------------------

func NewSQLiteCache(cfg *models.MConfig, log *logger.Logger) (*SQLiteCache, error) {
	c := &SQLiteCache{
		Config: cfg,
		Logger: log,
	}
	if err := c.Initialize(); err != nil {
		return nil, helpers.NewCacheError("sqlite cache init failed", err)
	}
	return c, nil
}

// -----------------------------------------------------------------------------

func (c *SQLiteCache) Initialize() error {
	dsn := c.Config.Cache.SQLiteDSN

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	// One connection keeps a non-shared :memory: database alive and visible
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	c.DB = db

	if _, err := db.Exec("PRAGMA synchronous = OFF;"); err != nil {
		c.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return c.recreateTables()
}

// -----------------------------------------------------------------------------

func (c *SQLiteCache) recreateTables() error {
	if _, err := c.DB.Exec("DROP TABLE IF EXISTS series_cache"); err != nil {
		return fmt.Errorf("failed to drop series_cache: %w", err)
	}

	// payload is NULL for a "no data" outcome
	query := `
		CREATE TABLE series_cache (
			key TEXT PRIMARY KEY,
			payload TEXT
		);
	`
	if _, err := c.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create series_cache: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *SQLiteCache) Lookup(key models.MSeriesKey) (*models.MPriceTable, bool, error) {
	var payload sql.NullString
	err := c.DB.QueryRow("SELECT payload FROM series_cache WHERE key = ?", key.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, helpers.NewCacheError("lookup "+key.String(), err)
	}
	if !payload.Valid {
		return nil, true, nil
	}

	table, err := decodeTable(payload.String)
	if err != nil {
		return nil, false, helpers.NewCacheError("decode "+key.String(), err)
	}
	return table, true, nil
}

// -----------------------------------------------------------------------------

func (c *SQLiteCache) Store(key models.MSeriesKey, table *models.MPriceTable) error {
	var payload sql.NullString
	if table != nil {
		encoded, err := encodeTable(table)
		if err != nil {
			return helpers.NewCacheError("encode "+key.String(), err)
		}
		payload = sql.NullString{String: encoded, Valid: true}
	}

	_, err := c.DB.Exec(`
		INSERT INTO series_cache (key, payload) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload
	`, key.String(), payload)
	if err != nil {
		return helpers.NewCacheError("store "+key.String(), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *SQLiteCache) Len() int {
	var n int
	if err := c.DB.QueryRow("SELECT COUNT(*) FROM series_cache").Scan(&n); err != nil {
		c.Logger.Error("Count series_cache error: %v", err)
		return 0
	}
	return n
}

// -----------------------------------------------------------------------------

func (c *SQLiteCache) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

func encodeTable(t *models.MPriceTable) (string, error) {
	ct := cachedTable{
		Symbol:  t.Symbol,
		Dates:   make([]string, len(t.Dates)),
		Columns: t.Columns,
		Values:  make([][]*float64, len(t.Values)),
	}
	for i, d := range t.Dates {
		ct.Dates[i] = d.Format("2006-01-02")
	}
	for c, col := range t.Values {
		ct.Values[c] = make([]*float64, len(col))
		for r, v := range col {
			if !math.IsNaN(v) {
				v := v
				ct.Values[c][r] = &v
			}
		}
	}

	data, err := json.Marshal(ct)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// -----------------------------------------------------------------------------

func decodeTable(payload string) (*models.MPriceTable, error) {
	var ct cachedTable
	if err := json.Unmarshal([]byte(payload), &ct); err != nil {
		return nil, err
	}

	t := &models.MPriceTable{
		Symbol:  ct.Symbol,
		Columns: ct.Columns,
		Values:  make([][]float64, len(ct.Values)),
	}
	for _, s := range ct.Dates {
		d, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		t.Dates = append(t.Dates, d)
	}
	for c, col := range ct.Values {
		t.Values[c] = make([]float64, len(col))
		for r, v := range col {
			if v == nil {
				t.Values[c][r] = math.NaN()
			} else {
				t.Values[c][r] = *v
			}
		}
	}
	return t, nil
}
