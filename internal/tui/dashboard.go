// Package tui renders the simulations dashboard in the terminal.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/views"
)

// Loader fetches the dashboard model for one refresh.
type Loader func(ctx context.Context) (views.Dashboard, error)

func StatsText(d views.Dashboard) string {
	st := d.Statistics
	text := fmt.Sprintf("Total: %d\n", st.Total)
	text += fmt.Sprintf("[Concluded: %d](fg:green)\n", st.Concluded)
	text += fmt.Sprintf("[In progress: %d](fg:yellow)\n", st.InProgress)
	text += fmt.Sprintf("Win rate: %s\n", st.WinRate)
	text += fmt.Sprintf("Avg return: %s\n", st.AvgReturn)
	text += fmt.Sprintf("Best: %s  Worst: %s", st.BestReturn, st.WorstReturn)
	return text
}

func CapitalText(d views.Dashboard) string {
	c := d.Capital
	color := "green"
	if len(c.NetResult) > 0 && c.NetResult[0] == '-' {
		color = "red"
	}
	text := fmt.Sprintf("Initial: %s\n", c.TotalInitial)
	text += fmt.Sprintf("Final: %s\n", c.TotalFinal)
	text += fmt.Sprintf("[Net: %s (%s%%)](fg:%s)\n", c.NetResult, c.ReturnPct, color)
	text += fmt.Sprintf("Risk profile: %s", d.Suggestions.Risk)
	return text
}

// RecentRows builds the recent simulations table including its header row.
func RecentRows(d views.Dashboard) [][]string {
	rows := [][]string{{"Name", "Symbol", "Return", "Status"}}
	for _, r := range d.Recent {
		ret := "-"
		if r.ReturnPct != nil {
			ret = normalize.FormatRate(r.ReturnPct)
		}
		rows = append(rows, []string{r.Name, r.Symbol, ret, r.Status.Label()})
	}
	return rows
}

func SuggestionRows(d views.Dashboard) []string {
	rows := make([]string, 0, len(d.Suggestions.Strategies))
	for i, s := range d.Suggestions.Strategies {
		rows = append(rows, fmt.Sprintf("[%d] %s (%s, %s)", i+1, s.Name, s.Bias, s.Risk))
	}
	if len(rows) == 0 {
		rows = append(rows, "no suggestions")
	}
	return rows
}

type screen struct {
	stats   *widgets.Paragraph
	capital *widgets.Paragraph
	recent  *widgets.Table
	suggest *widgets.List
	status  *widgets.Paragraph
}

func newScreen() *screen {
	s := &screen{
		stats:   widgets.NewParagraph(),
		capital: widgets.NewParagraph(),
		recent:  widgets.NewTable(),
		suggest: widgets.NewList(),
		status:  widgets.NewParagraph(),
	}
	s.stats.Title = "Statistics"
	s.stats.BorderStyle.Fg = ui.ColorYellow
	s.stats.TitleStyle.Fg = ui.ColorYellow
	s.stats.SetRect(0, 0, 40, 8)

	s.capital.Title = "Capital"
	s.capital.SetRect(40, 0, 90, 8)

	s.recent.Title = "Recent simulations"
	s.recent.RowSeparator = false
	s.recent.TextStyle = ui.NewStyle(ui.ColorWhite)
	s.recent.SetRect(0, 8, 90, 18)

	s.suggest.Title = "Suggested strategies"
	s.suggest.SetRect(0, 18, 90, 26)

	s.status.Border = false
	s.status.SetRect(0, 26, 90, 27)
	return s
}

func (s *screen) update(d views.Dashboard, err error, at time.Time) {
	if err != nil {
		s.status.Text = fmt.Sprintf("[refresh failed: %v](fg:red)", err)
		return
	}
	s.stats.Text = StatsText(d)
	s.capital.Text = CapitalText(d)
	s.recent.Rows = RecentRows(d)
	s.suggest.Rows = SuggestionRows(d)
	s.suggest.Title = "Suggested strategies (" + d.Suggestions.Level.String() + ")"
	s.status.Text = "updated " + at.Format("15:04:05") + "  q: quit  r: refresh  " + strconv.Itoa(len(d.Recent)) + " recent"
}

func (s *screen) render() {
	ui.Render(s.stats, s.capital, s.recent, s.suggest, s.status)
}

// Run draws the dashboard and refreshes it every interval until q, Ctrl-C or
// ctx cancellation.
func Run(ctx context.Context, load Loader, interval time.Duration) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("tui: init terminal: %w", err)
	}
	defer ui.Close()

	s := newScreen()
	refresh := func() {
		d, err := load(ctx)
		s.update(d, err, time.Now())
		s.render()
	}
	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "r":
				refresh()
			case "<Resize>":
				s.render()
			}
		case <-ticker.C:
			refresh()
		}
	}
}
