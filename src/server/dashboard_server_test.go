package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/presentation"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer answers from a fixed table of ticker -> status.
type fakeRenderer struct {
	mu       sync.Mutex
	requests []models.MDashboardRequest
}

func (f *fakeRenderer) Render(ctx context.Context, req models.MDashboardRequest) *models.MDashboardView {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.Ticker == "" {
		req.Ticker = "AAPL"
	}
	if req.Years == 0 {
		req.Years = 3
	}
	view := presentation.NewView(req.Ticker, req.Years, time.Date(2021, 6, 6, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC))

	switch req.Ticker {
	case "ZZZZZZ":
		return presentation.NoDataView(view)
	case "FAIL":
		return presentation.ErrorView(view, "bad status: 429")
	}

	v := 192.3
	view.Status = models.StatusOK
	view.Metrics = []models.MMetricReadout{{Label: "Current Price", Value: "$192.30", Raw: &v}}
	view.Figure = &models.MChartFigure{Data: []models.MChartTrace{{Type: "candlestick", Name: "Price", X: []string{"2024-06-05"}}}}
	view.Table = &models.MDataTable{Caption: "Raw Data (Last 1 Days)", Headers: []string{"Date"}, Rows: [][]string{{"2024-06-05"}}}
	view.Regime = models.RegimeBullish
	return view
}

type namedSource struct{ name string }

func (n namedSource) Name() string { return n.name }

func (n namedSource) FetchDailyBars(ctx context.Context, key models.MSeriesKey) (*models.MPriceTable, error) {
	return nil, nil
}

type fakeCatalog struct {
	names  []string
	active string
}

func (f *fakeCatalog) Names() []string { return f.names }

func (f *fakeCatalog) Active() interfaces.IDataSource { return namedSource{name: f.active} }

func newTestServer(t *testing.T) (*DashboardServer, *fakeRenderer) {
	t.Helper()
	cfg := &models.MConfig{
		Host:       "127.0.0.1",
		Port:       8501,
		LogLevel:   "INFO",
		DataSource: models.MDataSourceConfig{DefaultTicker: "AAPL", DefaultYears: 3},
		Cache:      models.MCacheConfig{Backend: "memory"},
		Analysis:   models.MAnalysisConfig{TableRows: 5, RecentCrosses: 5},
	}
	renderer := &fakeRenderer{}
	sources := &fakeCatalog{names: []string{"csv", "yahoo"}, active: "yahoo"}
	srv, err := NewDashboardServer(cfg, renderer, nil, sources, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop(context.Background()) })
	return srv, renderer
}

func get(srv *DashboardServer, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestDashboardEndpointStatusCodes(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
		code   int
		status models.ViewStatus
	}{
		{"ok", "/api/dashboard?ticker=AAPL&years=3", http.StatusOK, models.StatusOK},
		{"no data", "/api/dashboard?ticker=ZZZZZZ&years=3", http.StatusNotFound, models.StatusNoData},
		{"fetch failed", "/api/dashboard?ticker=FAIL&years=3", http.StatusBadGateway, models.StatusError},
		{"missing ticker", "/api/dashboard?years=3", http.StatusBadRequest, models.StatusError},
		{"years out of range", "/api/dashboard?ticker=AAPL&years=11", http.StatusBadRequest, models.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(srv, tt.target)
			assert.Equal(t, tt.code, w.Code)

			var body struct {
				Status  models.ViewStatus `json:"status"`
				Message string            `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestDashboardEndpointBody(t *testing.T) {
	srv, renderer := newTestServer(t)

	w := get(srv, "/api/dashboard?ticker=AAPL&years=3")
	require.Equal(t, http.StatusOK, w.Code)

	var view models.MDashboardView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "AAPL", view.Ticker)
	assert.Equal(t, "$192.30", view.Metrics[0].Value)
	assert.Equal(t, "candlestick", view.Figure.Data[0].Type)

	require.Len(t, renderer.requests, 1)
	assert.Equal(t, models.MDashboardRequest{Ticker: "AAPL", Years: 3}, renderer.requests[0])
}

func TestIndexPage(t *testing.T) {
	srv, renderer := newTestServer(t)

	w := get(srv, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Golden Cross Strategy Visualizer")
	assert.Contains(t, body, "$192.30")
	assert.Contains(t, body, "Raw Data (Last 1 Days)")
	assert.Contains(t, body, `"candlestick"`)
	assert.Equal(t, models.MDashboardRequest{}, renderer.requests[0])

	w = get(srv, "/?ticker=ZZZZZZ&years=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data found. Please check the Ticker symbol.")
	assert.Contains(t, w.Body.String(), "const initialFigure = null;")
}

func TestHealthAndConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	w := get(srv, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "yahoo", health["provider"])
	assert.Equal(t, 0.0, health["connections"])

	w = get(srv, "/api/config")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "AAPL", cfg["default_ticker"])
	assert.Equal(t, 10.0, cfg["max_years"])
	assert.Equal(t, "yahoo", cfg["provider"])
	assert.Equal(t, []interface{}{"csv", "yahoo"}, cfg["providers"])
}

func TestRequestIDAndCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	w := get(srv, "/api/health")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestWebSocketSession(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"ticker": "AAPL", "years": 3}))
	var view models.MDashboardView
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, models.StatusOK, view.Status)
	assert.Equal(t, "AAPL", view.Ticker)
	assert.Equal(t, 1, srv.ClientCount())

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"ticker": "ZZZZZZ", "years": 3}))
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, models.StatusNoData, view.Status)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"ticker": "AAPL", "years": 42}))
	view = models.MDashboardView{}
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, models.StatusError, view.Status)
	assert.Contains(t, view.Message, "invalid request")
	assert.Equal(t, presentation.Title, view.Title)
	assert.Equal(t, presentation.Description, view.Description)
	assert.Equal(t, "AAPL", view.Ticker)
	assert.Equal(t, 42, view.Years)
	end, err := time.Parse(time.DateOnly, view.End)
	require.NoError(t, err)
	start, err := time.Parse(time.DateOnly, view.Start)
	require.NoError(t, err)
	assert.Equal(t, end.AddDate(0, 0, -365*3), start)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	view = models.MDashboardView{}
	require.NoError(t, conn.ReadJSON(&view))
	assert.Equal(t, models.StatusError, view.Status)
	assert.Equal(t, presentation.Title, view.Title)
	assert.NotEmpty(t, view.Start)
}

func TestStopClosesWebSockets(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))
	assert.Equal(t, 0, srv.ClientCount())

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
