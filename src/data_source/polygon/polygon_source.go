package polygon

import (
	"context"
	"sort"
	"strings"
	"time"

	"golden-cross/src/helpers"
	"golden-cross/src/logger"
	"golden-cross/src/models"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
)

// PolygonSource fetches split-adjusted daily aggregates from Polygon.io.
type PolygonSource struct {
	client *polygon.Client
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPolygonSource builds the REST client. A non-empty base_url replaces the
// public endpoint. Client retries are off; a failed fetch is reported once.
func NewPolygonSource(cfg *models.MConfig, log *logger.Logger) *PolygonSource {
	client := polygon.New(cfg.DataSource.APIKey)
	client.HTTP.SetRetryCount(0)
	if cfg.DataSource.BaseURL != "" {
		client.HTTP.SetBaseURL(strings.TrimRight(cfg.DataSource.BaseURL, "/"))
	}
	return &PolygonSource{
		client: client,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (s *PolygonSource) Name() string {
	return "polygon"
}

// -----------------------------------------------------------------------------

func (s *PolygonSource) FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error) {
	params := polygonmodels.ListAggsParams{
		Ticker:     key.Ticker,
		Multiplier: 1,
		Timespan:   polygonmodels.Day,
		From:       polygonmodels.Millis(key.Start),
		To:         polygonmodels.Millis(key.End.Add(24*time.Hour - time.Second)),
	}.WithAdjusted(true).WithOrder(polygonmodels.Asc).WithLimit(50000)

	iter := s.client.ListAggs(ctx, params)

	var aggs []polygonmodels.Agg
	for iter.Next() {
		aggs = append(aggs, iter.Item())
	}
	if err := iter.Err(); err != nil {
		return nil, helpers.NewFetchFailed(key.Ticker, err)
	}

	bars := aggsToBars(aggs, key.Start, key.End)
	if len(bars) == 0 {
		return nil, helpers.NewNoDataFound(key.Ticker)
	}

	s.Logger.Info("Fetched %s: %d daily aggregates", key.Ticker, len(bars))
	return models.NewFlatTable(key.Ticker, bars), nil
}

// -----------------------------------------------------------------------------

// aggsToBars converts aggregates to date-unique, ascending bars inside
// [start, end]. Daily aggregate timestamps are the session start in New York,
// so the date is taken in that zone.
func aggsToBars(aggs []polygonmodels.Agg, start, end time.Time) []models.MPriceBar {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	byDate := make(map[time.Time]models.MPriceBar, len(aggs))
	for _, agg := range aggs {
		ts := time.Time(agg.Timestamp).In(loc)
		date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if date.Before(start) || date.After(end) {
			continue
		}
		byDate[date] = models.MPriceBar{
			Date:   date,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		}
	}

	bars := make([]models.MPriceBar, 0, len(byDate))
	for _, b := range byDate {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars
}
