package utils

import (
	"sync"
	"time"

	"golden-cross/src/logger"
	"golden-cross/src/models"
)

// CalendarRegistry memoizes one TradingCalendar per exchange, since a
// dashboard session tends to revisit the same few tickers.
type CalendarRegistry struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewCalendarRegistry(l *logger.Logger) *CalendarRegistry {
	return &CalendarRegistry{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
	}
}

// -----------------------------------------------------------------------------

// CalendarFor returns the calendar of the exchange symbol trades on
func (cr *CalendarRegistry) CalendarFor(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	cr.mu.RLock()
	cal, ok := cr.Calendars[mic]
	cr.mu.RUnlock()
	if ok {
		return cal
	}

	cal = GetCalendar(symbol)
	if cal.Fallback {
		cr.Logger.Warning("No calendar for %s (%s), counting weekdays", symbol, mic)
	}

	cr.mu.Lock()
	cr.Calendars[mic] = cal
	cr.mu.Unlock()
	return cal
}

// -----------------------------------------------------------------------------

// Coverage compares the bars received for symbol with the sessions its
// exchange held in [start, end].
func (cr *CalendarRegistry) Coverage(symbol string, bars int, start, end time.Time) *models.MCoverage {
	cal := cr.CalendarFor(symbol)
	return &models.MCoverage{
		Bars:     bars,
		Sessions: cal.CountSessions(start, end),
		Exchange: cal.MIC,
	}
}
