package presentation

import (
	"fmt"
	"strings"

	"golden-cross/src/models"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	HelpStyle    = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	LabelStyle   = lipgloss.NewStyle().Faint(true)
	ValueStyle   = lipgloss.NewStyle().Bold(true)
	BullishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	BearishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var readoutBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 2)

// -----------------------------------------------------------------------------

// RenderTerminal lays the view out for a terminal. The chart has no
// terminal form and is left out.
func RenderTerminal(view *models.MDashboardView) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(view.Title))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("%s  %s -> %s (%d years)", view.Ticker, view.Start, view.End, view.Years)))
	b.WriteString("\n\n")

	if view.Status != models.StatusOK {
		b.WriteString(ErrorStyle.Render(view.Message))
		b.WriteString("\n")
		return b.String()
	}

	boxes := make([]string, 0, len(view.Metrics))
	for _, m := range view.Metrics {
		body := LabelStyle.Render(m.Label) + "\n" + ValueStyle.Render(m.Value)
		if m.Delta != "" {
			body += " " + HelpStyle.Render(m.Delta)
		}
		boxes = append(boxes, readoutBox.Render(body))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n\n")

	b.WriteString(regimeLine(view))
	b.WriteString("\n")
	for _, c := range view.Crosses {
		b.WriteString(fmt.Sprintf("  %s  %-12s %s\n", c.Date, c.Label, c.Close))
	}

	if view.Coverage != nil {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("%d bars / %d %s sessions", view.Coverage.Bars, view.Coverage.Sessions, view.Coverage.Exchange)))
		b.WriteString("\n")
	}

	if view.Table != nil {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render(view.Table.Caption))
		b.WriteString("\n")
		t := NewDataTable(view.Table)
		b.WriteString(t.View())
		b.WriteString("\n")
	}

	return b.String()
}

// -----------------------------------------------------------------------------

func regimeLine(view *models.MDashboardView) string {
	switch view.Regime {
	case models.RegimeBullish:
		return "Regime: " + BullishStyle.Render("Bullish (SMA 50 above SMA 200)")
	case models.RegimeBearish:
		return "Regime: " + BearishStyle.Render("Bearish (SMA 50 below SMA 200)")
	default:
		return "Regime: " + HelpStyle.Render("Undetermined (not enough history)")
	}
}

// -----------------------------------------------------------------------------

// NewDataTable renders the trailing rows with the bubbles table widget.
func NewDataTable(data *models.MDataTable) table.Model {
	columns := make([]table.Column, len(data.Headers))
	for i, h := range data.Headers {
		width := len(h)
		for _, row := range data.Rows {
			if i < len(row) && len(row[i]) > width {
				width = len(row[i])
			}
		}
		columns[i] = table.Column{Title: h, Width: width + 1}
	}

	rows := make([]table.Row, len(data.Rows))
	for i, r := range data.Rows {
		rows[i] = table.Row(r)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Cell
	t.SetStyles(s)

	return t
}
