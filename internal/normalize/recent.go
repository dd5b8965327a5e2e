package normalize

import (
	"sort"
	"time"

	"github.com/optionslab/optionslab-client/internal/apiclient"
)

type RecentSimulation struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Symbol    string     `json:"symbol"`
	ReturnPct *float64   `json:"returnPct"`
	Status    Status     `json:"status"`
	CreatedAt *time.Time `json:"createdAt"`
}

// Recent returns up to limit simulations, newest first. Records are ordered by
// createdAt, falling back to startDate; undated records sort last in API
// order. A non-zero since drops records dated before it. limit <= 0 means no
// limit.
func (n *Normalizer) Recent(raws []apiclient.RawSimulation, limit int, since time.Time) []RecentSimulation {
	records := n.Simulations(raws)

	type dated struct {
		rec SimulationRecord
		at  *time.Time
	}
	rows := make([]dated, 0, len(records))
	for _, rec := range records {
		at := rec.CreatedAt
		if at == nil {
			at = rec.StartDate
		}
		if !since.IsZero() && (at == nil || at.Before(since)) {
			continue
		}
		rows = append(rows, dated{rec: rec, at: at})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].at, rows[j].at
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]RecentSimulation, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecentSimulation{
			ID:        r.rec.ID,
			Name:      r.rec.Name,
			Symbol:    r.rec.Symbol,
			ReturnPct: r.rec.ReturnPct,
			Status:    r.rec.Status,
			CreatedAt: r.at,
		})
	}
	return out
}
