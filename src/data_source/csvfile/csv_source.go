package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golden-cross/src/helpers"
	"golden-cross/src/logger"
	"golden-cross/src/models"
)

// CSVSource serves daily bars from <Dir>/<TICKER>.csv exports. Both a flat
// "Date,Open,High,Low,Close,Volume" header and the two-level layout written
// by multi-ticker downloaders ("Price,..." / "Ticker,..." / "Date,...") are
// understood; the latter yields a nested table.
type CSVSource struct {
	Dir    string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewCSVSource(cfg *models.MConfig, log *logger.Logger) *CSVSource {
	return &CSVSource{
		Dir:    cfg.DataSource.CSVDir,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (s *CSVSource) Name() string {
	return "csv"
}

// -----------------------------------------------------------------------------

func (s *CSVSource) FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, helpers.NewFetchFailed(key.Ticker, err)
	}

	path := filepath.Join(s.Dir, key.Ticker+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.Logger.Info("No CSV export for %s in %s", key.Ticker, s.Dir)
			return nil, helpers.NewNoDataFound(key.Ticker)
		}
		return nil, helpers.NewFetchFailed(key.Ticker, err)
	}
	defer f.Close()

	table, err := readTable(key.Ticker, f)
	if err != nil {
		return nil, helpers.NewFetchFailed(key.Ticker, fmt.Errorf("%s: %w", path, err))
	}

	table = clipTable(table, key.Start, key.End)
	if table.IsEmpty() {
		return nil, helpers.NewNoDataFound(key.Ticker)
	}

	s.Logger.Info("Loaded %s: %d rows from %s", key.Ticker, table.Len(), path)
	return table, nil
}

// -----------------------------------------------------------------------------

// readTable parses an export into an ascending, date-unique table. Blank
// cells become NaN. Rows whose date does not parse are skipped.
func readTable(symbol string, r io.Reader) (*models.MPriceTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return &models.MPriceTable{Symbol: symbol}, nil
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("header has %d columns", len(header))
	}

	columns := make([]models.MColumnKey, len(header)-1)
	body := records[1:]

	if isNestedHeader(records) {
		tickers := records[1]
		for i := range columns {
			columns[i] = models.MColumnKey{Field: header[i+1]}
			if i+1 < len(tickers) {
				columns[i].Ticker = tickers[i+1]
			}
		}
		body = records[2:]
		// The index-name row carries no values
		if len(body) > 0 && strings.EqualFold(body[0][0], "Date") {
			body = body[1:]
		}
	} else {
		for i := range columns {
			columns[i] = models.MColumnKey{Field: header[i+1]}
		}
	}

	byDate := make(map[time.Time][]float64, len(body))
	for _, rec := range body {
		if len(rec) == 0 {
			continue
		}
		date, ok := parseDate(rec[0])
		if !ok {
			continue
		}
		row := make([]float64, len(columns))
		for c := range columns {
			row[c] = math.NaN()
			if c+1 < len(rec) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(rec[c+1]), 64); err == nil {
					row[c] = v
				}
			}
		}
		byDate[date] = row
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := &models.MPriceTable{
		Symbol:  symbol,
		Dates:   dates,
		Columns: columns,
		Values:  make([][]float64, len(columns)),
	}
	for c := range columns {
		table.Values[c] = make([]float64, len(dates))
		for r, d := range dates {
			table.Values[c][r] = byDate[d][c]
		}
	}
	return table, nil
}

// -----------------------------------------------------------------------------

func isNestedHeader(records [][]string) bool {
	return len(records) > 1 &&
		strings.EqualFold(records[0][0], "Price") &&
		strings.EqualFold(records[1][0], "Ticker")
}

// -----------------------------------------------------------------------------

// parseDate accepts a bare date or a timestamp and keeps only the date part.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < len(time.DateOnly) {
		return time.Time{}, false
	}
	d, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// -----------------------------------------------------------------------------

func clipTable(t *models.MPriceTable, start, end time.Time) *models.MPriceTable {
	lo := sort.Search(len(t.Dates), func(i int) bool { return !t.Dates[i].Before(start) })
	hi := sort.Search(len(t.Dates), func(i int) bool { return t.Dates[i].After(end) })
	if lo >= hi {
		return &models.MPriceTable{Symbol: t.Symbol, Columns: t.Columns}
	}

	out := &models.MPriceTable{
		Symbol:  t.Symbol,
		Dates:   t.Dates[lo:hi],
		Columns: t.Columns,
		Values:  make([][]float64, len(t.Values)),
	}
	for c := range t.Values {
		out.Values[c] = t.Values[c][lo:hi]
	}
	return out
}
