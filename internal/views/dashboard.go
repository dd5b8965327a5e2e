package views

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/strategy"
)

type Suggestions struct {
	Level      strategy.ExperienceLevel `json:"level"`
	Risk       strategy.RiskProfile     `json:"risk"`
	Strategies []strategy.Descriptor    `json:"strategies"`
}

// CapitalSummary totals capital over simulations that report both figures.
// Amounts are fixed two-decimal strings.
type CapitalSummary struct {
	Simulations  int    `json:"simulations"`
	TotalInitial string `json:"totalInitial"`
	TotalFinal   string `json:"totalFinal"`
	NetResult    string `json:"netResult"`
	ReturnPct    string `json:"returnPct"`
}

type Dashboard struct {
	UserID      string                         `json:"userId"`
	GeneratedAt time.Time                      `json:"generatedAt"`
	Statistics  normalize.SimulationStatistics `json:"statistics"`
	Recent      []normalize.RecentSimulation   `json:"recent"`
	Capital     CapitalSummary                 `json:"capital"`
	Suggestions Suggestions                    `json:"suggestions"`
}

func suggestionsFor(stats normalize.SimulationStatistics, level strategy.ExperienceLevel) Suggestions {
	risk := strategy.InferRiskProfile(stats.Rates())
	return Suggestions{
		Level:      level,
		Risk:       risk,
		Strategies: strategy.GetSuggestedStrategies(level, risk),
	}
}

// Suggestions infers the user's risk profile from their statistics and
// filters the catalog for level.
func (s *Service) Suggestions(ctx context.Context, userID string, level strategy.ExperienceLevel) (Suggestions, error) {
	stats, err := s.Statistics(ctx, userID)
	if err != nil {
		return Suggestions{}, err
	}
	return suggestionsFor(stats, level), nil
}

// Dashboard fetches statistics and simulations in parallel and assembles the
// home screen model.
func (s *Service) Dashboard(ctx context.Context, userID string, level strategy.ExperienceLevel, recentLimit int) (Dashboard, error) {
	var (
		stats   normalize.SimulationStatistics
		records []normalize.SimulationRecord
		recent  []normalize.RecentSimulation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.Statistics(gctx, userID)
		return err
	})
	g.Go(func() error {
		raws, err := s.rawSimulations(gctx, userID)
		if err != nil {
			return err
		}
		records = s.normalizer.Simulations(raws)
		recent = s.normalizer.Recent(raws, recentLimit, time.Time{})
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		UserID:      userID,
		GeneratedAt: s.normalizer.Current().UTC(),
		Statistics:  stats,
		Recent:      recent,
		Capital:     SummarizeCapital(records),
		Suggestions: suggestionsFor(stats, level),
	}, nil
}

// SummarizeCapital sums initial and final capital with exact decimal
// arithmetic. ReturnPct is "0.00" when no initial capital was invested.
func SummarizeCapital(records []normalize.SimulationRecord) CapitalSummary {
	initial, final := decimal.Zero, decimal.Zero
	n := 0
	for _, r := range records {
		if r.InitialCapital == nil || r.FinalCapital == nil {
			continue
		}
		initial = initial.Add(decimal.NewFromFloat(*r.InitialCapital))
		final = final.Add(decimal.NewFromFloat(*r.FinalCapital))
		n++
	}
	net := final.Sub(initial)
	pct := decimal.Zero
	if !initial.IsZero() {
		pct = net.Div(initial).Mul(decimal.NewFromInt(100))
	}
	return CapitalSummary{
		Simulations:  n,
		TotalInitial: initial.StringFixed(2),
		TotalFinal:   final.StringFixed(2),
		NetResult:    net.StringFixed(2),
		ReturnPct:    pct.StringFixed(2),
	}
}
