package strategy

import "github.com/optionslab/optionslab-client/internal/normalize"

// Risk tier thresholds, in percent.
const (
	highRiskMinAvgReturn = 20.0
	lowRiskMinWinRate    = 65.0
	lowRiskMaxAvgReturn  = 12.0
)

// parsePercent reads "55,3%"-style text; anything unparsable counts as 0.
func parsePercent(text string) float64 {
	v, _ := normalize.ParsePercent(text)
	return v
}

// InferUserRiskProfile classifies a user's history. An average return above
// 20% is HIGH; a win rate of at least 65% with average return at most 12% is
// LOW; everything else is MEDIUM.
func InferUserRiskProfile(winRateText, avgReturnText string) RiskProfile {
	return InferRiskProfile(parsePercent(winRateText), parsePercent(avgReturnText))
}

// InferRiskProfile applies the same tiers to rates that are already parsed.
func InferRiskProfile(winRate, avgReturn float64) RiskProfile {
	switch {
	case avgReturn > highRiskMinAvgReturn:
		return RiskHigh
	case winRate >= lowRiskMinWinRate && avgReturn <= lowRiskMaxAvgReturn:
		return RiskLow
	default:
		return RiskMedium
	}
}
