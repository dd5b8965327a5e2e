package telegramtmpl

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/views"
)

// AlertData describes a simulation that just concluded.
type AlertData struct {
	Name         string
	StrategyName string
	Symbol       string
	EndDate      string
	InitialCap   string
	FinalCap     string
	ReturnPct    string
}

// DigestData describes the dashboard summary message.
type DigestData struct {
	UserID      string
	Total       int
	Concluded   int
	InProgress  int
	WinRate     string
	AvgReturn   string
	NetResult   string
	Risk        string
	Level       string
	Suggestions []string
	Hints       []string
}

func amount(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// BuildAlertData formats a concluded record for rendering.
func BuildAlertData(rec normalize.SimulationRecord) AlertData {
	end := "-"
	if rec.EndDate != nil {
		end = rec.EndDate.Format("2006-01-02")
	}
	ret := "-"
	if rec.ReturnPct != nil {
		ret = normalize.FormatRate(rec.ReturnPct)
	}
	strategyName := strings.TrimSpace(rec.StrategyName)
	if strategyName == rec.Name {
		strategyName = ""
	}
	return AlertData{
		Name:         rec.Name,
		StrategyName: strategyName,
		Symbol:       rec.Symbol,
		EndDate:      end,
		InitialCap:   amount(rec.InitialCapital),
		FinalCap:     amount(rec.FinalCapital),
		ReturnPct:    ret,
	}
}

// BuildDigestData condenses a dashboard into a digest payload. At most three
// suggestions are listed.
func BuildDigestData(d views.Dashboard) DigestData {
	names := make([]string, 0, 3)
	for _, s := range d.Suggestions.Strategies {
		if len(names) == 3 {
			break
		}
		names = append(names, s.Name)
	}
	return DigestData{
		UserID:      d.UserID,
		Total:       d.Statistics.Total,
		Concluded:   d.Statistics.Concluded,
		InProgress:  d.Statistics.InProgress,
		WinRate:     d.Statistics.WinRate,
		AvgReturn:   d.Statistics.AvgReturn,
		NetResult:   d.Capital.NetResult,
		Risk:        string(d.Suggestions.Risk),
		Level:       d.Suggestions.Level.String(),
		Suggestions: names,
		Hints: BuildDigestHints(DigestAdviceInput{
			Total:      d.Statistics.Total,
			Concluded:  d.Statistics.Concluded,
			InProgress: d.Statistics.InProgress,
			NetResult:  d.Capital.NetResult,
			Risk:       string(d.Suggestions.Risk),
		}),
	}
}

// RenderConcludedHTML renders a concluded-simulation alert in HTML parse mode.
func RenderConcludedHTML(a AlertData) string {
	var b strings.Builder
	b.WriteString("<b>Simulation Concluded</b>\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", html.EscapeString(a.Name)))
	if a.StrategyName != "" {
		b.WriteString(fmt.Sprintf("Strategy: %s\n", html.EscapeString(a.StrategyName)))
	}
	b.WriteString(fmt.Sprintf("Asset: <code>%s</code>\nEnded: %s\n", html.EscapeString(a.Symbol), a.EndDate))
	b.WriteString(fmt.Sprintf("Capital: %s → %s\nReturn: %s\n", a.InitialCap, a.FinalCap, a.ReturnPct))
	return b.String()
}

// RenderDigestHTML renders the dashboard digest in HTML parse mode.
func RenderDigestHTML(d DigestData) string {
	var b strings.Builder
	b.WriteString("<b>Simulations Digest</b>\n")
	if d.UserID != "" {
		b.WriteString(fmt.Sprintf("User: <code>%s</code>\n", html.EscapeString(d.UserID)))
	}
	b.WriteString(fmt.Sprintf("Simulations: %d (concluded %d, in progress %d)\n", d.Total, d.Concluded, d.InProgress))
	b.WriteString(fmt.Sprintf("Win Rate: %s\nAvg Return: %s\nNet Result: %s\n", d.WinRate, d.AvgReturn, d.NetResult))
	b.WriteString(fmt.Sprintf("Risk Profile: %s\nLevel: %s\n", d.Risk, d.Level))
	if len(d.Suggestions) > 0 {
		b.WriteString("\n<b>Suggested Strategies</b>\n")
		for _, s := range d.Suggestions {
			b.WriteString("- " + html.EscapeString(s) + "\n")
		}
	}
	if len(d.Hints) > 0 {
		b.WriteString("\n<b>Hints</b>\n")
		for _, h := range d.Hints {
			b.WriteString("- " + h + "\n")
		}
	}
	return b.String()
}
