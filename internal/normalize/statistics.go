package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/optionslab/optionslab-client/internal/apiclient"
)

// SimulationStatistics are one user's aggregates. Rates are display strings
// in the API's locale ("55,3%"), rounded to one decimal. The unrounded win
// rate and average return are kept for classification.
type SimulationStatistics struct {
	Total       int    `json:"total"`
	Concluded   int    `json:"concluded"`
	InProgress  int    `json:"inProgress"`
	WinRate     string `json:"winRate"`
	AvgReturn   string `json:"avgReturn"`
	BestReturn  string `json:"bestReturn"`
	WorstReturn string `json:"worstReturn"`

	WinRateValue   *float64 `json:"-"`
	AvgReturnValue *float64 `json:"-"`
}

// Rates returns the unrounded win rate and average return. Values missing
// from the payload are read back from the display text, and unparsable text
// counts as 0.
func (s SimulationStatistics) Rates() (winRate, avgReturn float64) {
	return rateOrText(s.WinRateValue, s.WinRate), rateOrText(s.AvgReturnValue, s.AvgReturn)
}

func rateOrText(v *float64, text string) float64 {
	if v != nil {
		return *v
	}
	f, _ := ParsePercent(text)
	return f
}

// Statistics normalizes a statistics payload. A nil payload yields zeroes.
// When the API omits the in-progress count it is derived from the other two.
func (n *Normalizer) Statistics(raw *apiclient.RawStatistics) SimulationStatistics {
	if raw == nil {
		raw = &apiclient.RawStatistics{}
	}
	winRate := numericField("winRate", raw.WinRate)
	avgReturn := numericField("avgReturn", raw.AvgReturn)
	stats := SimulationStatistics{
		Total:          count("totalSimulations", raw.TotalSimulations),
		Concluded:      count("concludedSimulations", raw.ConcludedSimulations),
		WinRate:        FormatRate(winRate),
		AvgReturn:      FormatRate(avgReturn),
		BestReturn:     FormatRate(numericField("bestReturn", raw.BestReturn)),
		WorstReturn:    FormatRate(numericField("worstReturn", raw.WorstReturn)),
		WinRateValue:   winRate,
		AvgReturnValue: avgReturn,
	}
	if raw.InProgressSimulations != nil {
		stats.InProgress = count("inProgressSimulations", raw.InProgressSimulations)
	} else if d := stats.Total - stats.Concluded; d > 0 {
		stats.InProgress = d
	}
	return stats
}

// FormatRate renders a percentage with one decimal and a comma separator.
// nil renders as "0,0%".
func FormatRate(v *float64) string {
	f := 0.0
	if v != nil {
		f = *v
	}
	text := strconv.FormatFloat(f, 'f', 1, 64)
	if text == "-0.0" {
		text = "0.0"
	}
	return strings.Replace(text, ".", ",", 1) + "%"
}

func count(name string, v any) int {
	f := numericField(name, v)
	if f == nil || *f < 0 {
		return 0
	}
	return int(math.Round(*f))
}
