package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golden-cross/src/helpers"
	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/network"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

type YahooFinanceSource struct {
	BaseURL string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return "yahoo"
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	baseURL := cfg.DataSource.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &YahooFinanceSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// FetchDailyBars fetches daily candles for key from the v8 chart endpoint
func (s *YahooFinanceSource) FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error) {
	// period2 is exclusive on the provider side
	params := map[string]string{
		"interval":       "1d",
		"period1":        strconv.FormatInt(key.Start.Unix(), 10),
		"period2":        strconv.FormatInt(key.End.AddDate(0, 0, 1).Unix(), 10),
		"includePrePost": "false",
		"events":         "history",
	}

	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s", s.BaseURL, url.PathEscape(key.Ticker))

	respBytes, err := s.Network.Get(ctx, chartURL, params)
	if err != nil {
		var statusErr *network.HTTPStatusError
		if errors.As(err, &statusErr) {
			return nil, s.classifyStatus(key.Ticker, statusErr)
		}
		return nil, helpers.NewFetchFailed(key.Ticker, fmt.Errorf("network error: %w", err))
	}

	bars, err := s.parseChartResponse(key.Ticker, respBytes)
	if err != nil {
		return nil, helpers.AsAdapterError(key.Ticker, err)
	}

	bars = clipToRange(bars, key.Start, key.End)
	if len(bars) == 0 {
		return nil, helpers.NewNoDataFound(key.Ticker)
	}

	s.Logger.Info("Fetched %s: %d daily bars [%s -> %s]", key.Ticker, len(bars),
		bars[0].Date.Format(time.DateOnly), bars[len(bars)-1].Date.Format(time.DateOnly))

	return models.NewFlatTable(key.Ticker, bars), nil
}

// -----------------------------------------------------------------------------

// classifyStatus maps a non-200 response. The endpoint answers 404 with a
// "Not Found" chart error for unknown symbols.
func (s *YahooFinanceSource) classifyStatus(ticker string, statusErr *network.HTTPStatusError) error {
	var resp YahooChartResponse
	if json.Unmarshal(statusErr.Body, &resp) == nil && resp.Chart.Error != nil {
		if statusErr.StatusCode == http.StatusNotFound || resp.Chart.Error.Code == "Not Found" {
			s.Logger.Info("Unknown symbol %s: %s", ticker, resp.Chart.Error.Description)
			return helpers.NewNoDataFound(ticker)
		}
		return helpers.NewFetchFailed(ticker, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description))
	}
	if statusErr.StatusCode == http.StatusNotFound {
		return helpers.NewNoDataFound(ticker)
	}
	return helpers.NewFetchFailed(ticker, statusErr)
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				InstrumentType       string `json:"instrumentType"`
				Gmtoffset            int64  `json:"gmtoffset"`
				Timezone             string `json:"timezone"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) ([]models.MPriceBar, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		if resp.Chart.Error.Code == "Not Found" {
			return nil, helpers.NewNoDataFound(symbol)
		}
		return nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	// An empty result or no timestamps means nothing traded in range.
	if len(resp.Chart.Result) == 0 {
		return nil, helpers.NewNoDataFound(symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, helpers.NewNoDataFound(symbol)
	}

	indicators := result.Indicators.Quote
	if len(indicators) == 0 {
		return nil, fmt.Errorf("no quote data in response for %s", symbol)
	}

	quote := indicators[0]

	// 1. Validation: Alignment check
	n := len(result.Timestamp)
	if n != len(quote.Close) || n != len(quote.Open) || n != len(quote.High) ||
		n != len(quote.Low) || n != len(quote.Volume) {
		s.Logger.Info("Data alignment error for %s: Mismatched array lengths", symbol)
		return nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	// 2. Build rows keyed by exchange-local date
	byDate := make(map[time.Time]models.MPriceBar, n)
	for i := 0; i < n; i++ {
		// Holidays and halted sessions come back as null
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			s.Logger.Debug("Skipping null OHLC for %s at index %d", symbol, i)
			continue
		}

		volume := 0.0
		if quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		date := exchangeDate(result.Timestamp[i], result.Meta.Gmtoffset)
		// Later rows for the same date win
		byDate[date] = models.MPriceBar{
			Date:   date,
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		}
	}

	bars := make([]models.MPriceBar, 0, len(byDate))
	for _, b := range byDate {
		bars = append(bars, b)
	}

	// 3. Sort by date
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	return bars, nil
}

// -----------------------------------------------------------------------------

// exchangeDate converts a session timestamp to its calendar date on the
// exchange, as midnight UTC.
func exchangeDate(ts int64, gmtoffset int64) time.Time {
	local := time.Unix(ts+gmtoffset, 0).UTC()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

func clipToRange(bars []models.MPriceBar, start, end time.Time) []models.MPriceBar {
	out := bars[:0]
	for _, b := range bars {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
