package normalize

import (
	"strings"
	"time"

	"github.com/optionslab/optionslab-client/internal/apiclient"
	"github.com/optionslab/optionslab-client/internal/metrics"
)

// SimulationRecord is a fully typed simulation. Numeric fields are nil when
// the API sent nothing usable; they are never NaN.
type SimulationRecord struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	StrategyName   string     `json:"strategyName,omitempty"`
	Symbol         string     `json:"symbol"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	InitialCapital *float64   `json:"initialCapital"`
	FinalCapital   *float64   `json:"finalCapital"`
	ReturnPct      *float64   `json:"returnPct"`
	WinRate        *float64   `json:"winRate"`
	MaxDrawdown    *float64   `json:"maxDrawdown"`
	Status         Status     `json:"status"`
	CreatedAt      *time.Time `json:"createdAt"`
}

// Normalizer holds the clock used for status derivation.
type Normalizer struct {
	Now func() time.Time
}

func New() *Normalizer {
	return &Normalizer{Now: time.Now}
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// Current reports the time status derivation is evaluated against.
func (n *Normalizer) Current() time.Time { return n.now() }

// Simulation normalizes one raw record.
func (n *Normalizer) Simulation(raw apiclient.RawSimulation) SimulationRecord {
	return SimulationRecord{
		ID:             idString(raw.ID),
		Name:           ResolveName(raw.Name, raw.StrategyName),
		StrategyName:   strings.TrimSpace(raw.StrategyName),
		Symbol:         ResolveSymbol(raw.AssetSymbol, raw.Ticker),
		StartDate:      dateField("startDate", raw.StartDate),
		EndDate:        dateField("endDate", raw.EndDate),
		InitialCapital: numericField("initialCapital", raw.InitialCapital),
		FinalCapital:   numericField("finalCapital", raw.FinalCapital),
		ReturnPct:      numericField("totalReturn", raw.TotalReturn),
		WinRate:        numericField("winRate", raw.WinRate),
		MaxDrawdown:    numericField("maxDrawdown", raw.MaxDrawdown),
		Status:         DeriveStatus(raw.EndDate, n.now()),
		CreatedAt:      dateField("createdAt", raw.CreatedAt),
	}
}

// Simulations normalizes a list, keeping the API order. The result is never
// nil so it renders as [] rather than null.
func (n *Normalizer) Simulations(raws []apiclient.RawSimulation) []SimulationRecord {
	out := make([]SimulationRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Simulation(raw))
	}
	return out
}

// numericField parses v and counts a degradation when a value was present
// but unusable.
func numericField(name string, v any) *float64 {
	f := ParseNumeric(v)
	if f == nil && present(v) {
		metrics.IncNormalizeDegraded(name)
	}
	return f
}

func dateField(name, s string) *time.Time {
	t, ok := ParseDate(s)
	if !ok {
		if strings.TrimSpace(s) != "" {
			metrics.IncNormalizeDegraded(name)
		}
		return nil
	}
	return &t
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}
