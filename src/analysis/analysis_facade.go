package analysis

import (
	"golden-cross/src/logger"
	"golden-cross/src/models"
)

type AnalysisFacade struct {
	Config *models.MConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// Analyze derives the moving averages of table, then the crosses between
// them and the current regime. Only the most recent analysis.recent_crosses
// events are kept; zero keeps none.
func (a *AnalysisFacade) Analyze(table *models.MPriceTable) (*models.MAnalysis, error) {
	series, err := ComputeMetrics(table)
	if err != nil {
		return nil, err
	}

	crosses := DetectCrosses(series)
	total := len(crosses)
	if keep := a.Config.Analysis.RecentCrosses; len(crosses) > keep {
		crosses = crosses[len(crosses)-keep:]
	}

	regime := CurrentRegime(series)

	a.Logger.Debug("Analyzed %s: %d rows, %d crosses, regime %s", series.Symbol, series.Len(), total, regime)

	return &models.MAnalysis{
		Series:  series,
		Crosses: crosses,
		Regime:  regime,
	}, nil
}
