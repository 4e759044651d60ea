package models

import "time"

// -----------------------------------------------------------------------------
// Dashboard View Structure
// -----------------------------------------------------------------------------

type ViewStatus string

const (
	StatusOK     ViewStatus = "ok"
	StatusNoData ViewStatus = "no_data"
	StatusError  ViewStatus = "error"
)

// MDashboardView is everything one render cycle shows. Figure, Metrics and
// Table are empty unless Status is StatusOK.
type MDashboardView struct {
	Title       string           `json:"title"`
	Description []string         `json:"description"`
	Ticker      string           `json:"ticker"`
	Years       int              `json:"years"`
	Start       string           `json:"start"`
	End         string           `json:"end"`
	Status      ViewStatus       `json:"status"`
	Message     string           `json:"message,omitempty"`
	Metrics     []MMetricReadout `json:"metrics,omitempty"`
	Figure      *MChartFigure    `json:"figure,omitempty"`
	Table       *MDataTable      `json:"table,omitempty"`
	Regime      Regime           `json:"regime,omitempty"`
	Crosses     []MCrossView     `json:"crosses,omitempty"`
	Coverage    *MCoverage       `json:"coverage,omitempty"`
	Cached      bool             `json:"cached"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// MMetricReadout is one labeled scalar, already formatted for display.
type MMetricReadout struct {
	Label   string   `json:"label"`
	Value   string   `json:"value"`
	Raw     *float64 `json:"raw"`
	Delta   string   `json:"delta,omitempty"`
	Missing bool     `json:"missing"`
}

// MDataTable is the trailing rows view.
type MDataTable struct {
	Caption string     `json:"caption"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type MCrossView struct {
	Kind  CrossKind `json:"kind"`
	Label string    `json:"label"`
	Date  string    `json:"date"`
	Close string    `json:"close"`
}

// MCoverage compares received bars with the exchange sessions in range.
type MCoverage struct {
	Bars     int    `json:"bars"`
	Sessions int    `json:"sessions"`
	Exchange string `json:"exchange"`
}

// -----------------------------------------------------------------------------
// Chart Figure (Plotly figure JSON)
// -----------------------------------------------------------------------------

type MChartFigure struct {
	Data   []MChartTrace `json:"data"`
	Layout MChartLayout  `json:"layout"`
}

// MChartTrace holds either OHLC arrays (candlestick) or Y (scatter line).
// A nil entry in any series is a gap.
type MChartTrace struct {
	Type  string      `json:"type"`
	Mode  string      `json:"mode,omitempty"`
	Name  string      `json:"name"`
	X     []string    `json:"x"`
	Open  []*float64  `json:"open,omitempty"`
	High  []*float64  `json:"high,omitempty"`
	Low   []*float64  `json:"low,omitempty"`
	Close []*float64  `json:"close,omitempty"`
	Y     []*float64  `json:"y,omitempty"`
	Line  *MLineStyle `json:"line,omitempty"`
}

type MLineStyle struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type MChartLayout struct {
	Title  string    `json:"title"`
	XAxis  MAxisSpec `json:"xaxis"`
	YAxis  MAxisSpec `json:"yaxis"`
	Height int       `json:"height"`
}

type MAxisSpec struct {
	Title       string        `json:"title"`
	RangeSlider *MRangeSlider `json:"rangeslider,omitempty"`
}

type MRangeSlider struct {
	Visible bool `json:"visible"`
}

// -----------------------------------------------------------------------------
// DashboardRequest for user interactions (form, query string or websocket)
// -----------------------------------------------------------------------------

type MDashboardRequest struct {
	Ticker string `json:"ticker" form:"ticker" binding:"required,max=32"`
	Years  int    `json:"years" form:"years" binding:"required,min=1,max=10"`
}
