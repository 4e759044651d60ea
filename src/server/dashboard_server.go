package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"golden-cross/src/interfaces"
	"golden-cross/src/logger"
	"golden-cross/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/index.html
var templateFS embed.FS

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Renderer interfaces.IDashboardRenderer
	Cache    interfaces.ISeriesCache
	Sources  interfaces.ISourceCatalog

	engine     *gin.Engine
	httpServer *http.Server
	startedAt  time.Time

	// WebSocket clients
	clients   map[*Client]struct{}
	clientsMu sync.RWMutex
	closed    bool
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(
	cfg *models.MConfig,
	renderer interfaces.IDashboardRenderer,
	cache interfaces.ISeriesCache,
	sources interfaces.ISourceCatalog,
	log *logger.Logger,
) (*DashboardServer, error) {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.New("index.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	s := &DashboardServer{
		Config:    cfg,
		Logger:    log,
		Renderer:  renderer,
		Cache:     cache,
		Sources:   sources,
		engine:    gin.New(),
		startedAt: time.Now(),
		clients:   make(map[*Client]struct{}),
	}

	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(gin.Recovery(), s.requestID(), s.accessLog(), cors())

	// setup web routes
	s.setupRoutes()

	return s, nil
}

// -----------------------------------------------------------------------------
// Middleware
// -----------------------------------------------------------------------------

const requestIDHeader = "X-Request-ID"

var yearOptions = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

// requestID tags every request with an id, reusing the caller's when given.
func (s *DashboardServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s %d %s [%s]", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start), c.GetString("request_id"))
	}
}

// -----------------------------------------------------------------------------

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	// HTML dashboard
	s.engine.GET("/", s.getIndex)

	// REST API endpoints
	s.engine.GET("/api/dashboard", s.getDashboard)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the routes, for tests and embedding.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start serves until Stop is called.
func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.Logger.Info("Starting server on http://%s", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop closes websocket clients and drains in-flight requests.
func (s *DashboardServer) Stop(ctx context.Context) error {
	s.closeClients()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

// getIndex renders the HTML page. Missing fields fall back to the
// configured defaults.
func (s *DashboardServer) getIndex(c *gin.Context) {
	var req models.MDashboardRequest
	req.Ticker = c.Query("ticker")
	if years := c.Query("years"); years != "" {
		if _, err := fmt.Sscanf(years, "%d", &req.Years); err != nil {
			req.Years = -1
		}
	}

	view := s.Renderer.Render(c.Request.Context(), req)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"View":        view,
		"Figure":      figureJSON(view.Figure),
		"YearOptions": yearOptions,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getDashboard(c *gin.Context) {
	var req models.MDashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  models.StatusError,
			"message": err.Error(),
		})
		return
	}

	view := s.Renderer.Render(c.Request.Context(), req)
	c.JSON(statusCode(view.Status), view)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider":       s.providerName(),
		"providers":      s.providerNames(),
		"default_ticker": s.Config.DataSource.DefaultTicker,
		"default_years":  s.Config.DataSource.DefaultYears,
		"min_years":      1,
		"max_years":      10,
		"table_rows":     s.Config.Analysis.TableRows,
		"recent_crosses": s.Config.Analysis.RecentCrosses,
		"cache_backend":  s.Config.Cache.Backend,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	cached := 0
	if s.Cache != nil {
		cached = s.Cache.Len()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"provider":       s.providerName(),
		"connections":    s.ClientCount(),
		"cached_series":  cached,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) providerName() string {
	if s.Sources == nil || s.Sources.Active() == nil {
		return ""
	}
	return s.Sources.Active().Name()
}

func (s *DashboardServer) providerNames() []string {
	if s.Sources == nil {
		return []string{}
	}
	return s.Sources.Names()
}

// -----------------------------------------------------------------------------

func statusCode(status models.ViewStatus) int {
	switch status {
	case models.StatusOK:
		return http.StatusOK
	case models.StatusNoData:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
