package server

import (
	"encoding/json"
	"html/template"

	"golden-cross/src/models"
)

var templateFuncs = template.FuncMap{
	"isOK":      func(status models.ViewStatus) bool { return status == models.StatusOK },
	"isBullish": func(r models.Regime) bool { return r == models.RegimeBullish },
	"isBearish": func(r models.Regime) bool { return r == models.RegimeBearish },
}

// figureJSON encodes the chart for inline use in a script tag. nil encodes
// as null.
func figureJSON(fig *models.MChartFigure) template.JS {
	data, err := json.Marshal(fig)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(data)
}
