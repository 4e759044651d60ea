package service

import (
	"context"
	"strings"
	"time"

	"golden-cross/src/analysis"
	datasource "golden-cross/src/data_source"
	"golden-cross/src/helpers"
	"golden-cross/src/logger"
	"golden-cross/src/models"
	"golden-cross/src/presentation"
	"golden-cross/src/utils"
)

// DashboardService runs one render cycle per user interaction: resolve the
// date range, fetch through the cache, analyze, present.
type DashboardService struct {
	Config       *models.MConfig
	Source       *datasource.CachedSource
	Analysis     *analysis.AnalysisFacade
	Calendars    *utils.CalendarRegistry
	ErrorHandler *helpers.ErrorHandler
	Logger       *logger.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time
}

// -----------------------------------------------------------------------------

func NewDashboardService(cfg *models.MConfig, source *datasource.CachedSource, log *logger.Logger) *DashboardService {
	return &DashboardService{
		Config:       cfg,
		Source:       source,
		Analysis:     analysis.NewAnalysisFacade(cfg, log.Named("Analysis")),
		Calendars:    utils.NewCalendarRegistry(log.Named("Calendar")),
		ErrorHandler: helpers.NewErrorHandler(log),
		Logger:       log,
		Now:          time.Now,
	}
}

// -----------------------------------------------------------------------------

// DateRange returns the lookback window ending today: end is today's date
// and start lies years*365 days earlier.
func DateRange(now time.Time, years int) (time.Time, time.Time) {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -365*years)
	return start, end
}

// -----------------------------------------------------------------------------

// NormalizeRequest uppercases the ticker and fills defaults from config.
func (s *DashboardService) NormalizeRequest(req models.MDashboardRequest) (models.MDashboardRequest, error) {
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if req.Ticker == "" {
		req.Ticker = s.Config.DataSource.DefaultTicker
	}
	if req.Years == 0 {
		req.Years = s.Config.DataSource.DefaultYears
	}

	if req.Ticker == "" {
		return req, helpers.NewValidationError("ticker is required")
	}
	if req.Years < 1 || req.Years > 10 {
		return req, helpers.NewValidationError("years must be between 1 and 10, got %d", req.Years)
	}
	return req, nil
}

// -----------------------------------------------------------------------------

// Render produces the view for req. Failures become a message in the view;
// Render itself never fails.
func (s *DashboardService) Render(ctx context.Context, req models.MDashboardRequest) *models.MDashboardView {
	req, err := s.NormalizeRequest(req)
	start, end := DateRange(s.Now(), req.Years)
	view := presentation.NewView(req.Ticker, req.Years, start, end)
	defer func() { view.GeneratedAt = s.Now().UTC() }()

	if err != nil {
		s.ErrorHandler.Handle(err, "request")
		view.Status = models.StatusError
		view.Message = err.Error()
		return view
	}

	key := models.MSeriesKey{Ticker: req.Ticker, Start: start, End: end}
	s.Logger.Info("Loading data for %s", key)

	table, cached, err := s.Source.Fetch(ctx, key)
	view.Cached = cached
	switch {
	case helpers.IsNoData(err):
		s.ErrorHandler.Handle(err, "fetch "+req.Ticker)
		return presentation.NoDataView(view)
	case err != nil:
		s.ErrorHandler.Handle(err, "fetch "+req.Ticker)
		return presentation.ErrorView(view, helpers.FetchFailureCause(err))
	}

	result, err := s.Analysis.Analyze(table)
	if err != nil {
		s.ErrorHandler.Handle(err, "analyze "+req.Ticker)
		return presentation.ErrorView(view, err.Error())
	}

	presentation.BuildDashboardView(view, result, s.Config.Analysis.TableRows)
	if view.Status == models.StatusOK {
		view.Coverage = s.Calendars.Coverage(req.Ticker, result.Series.Len(), start, end)
	}
	return view
}
