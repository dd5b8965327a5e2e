package telegramtmpl

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DigestAdviceInput describes inputs for generating digest hints.
type DigestAdviceInput struct {
	Total      int
	Concluded  int
	InProgress int
	NetResult  string
	Risk       string
}

// BuildDigestHints generates at most three hints for the digest.
func BuildDigestHints(in DigestAdviceInput) []string {
	hints := make([]string, 0, 4)
	if in.Total == 0 {
		hints = append(hints, "Start a first simulation to build a track record.")
	} else if in.Concluded == 0 {
		hints = append(hints, "No simulation has concluded yet; statistics are provisional.")
	}
	if in.InProgress > 0 && in.InProgress > in.Concluded {
		hints = append(hints, "Most simulations are still running; review them as they conclude.")
	}
	if net, err := decimal.NewFromString(strings.TrimSpace(in.NetResult)); err == nil && net.IsNegative() {
		hints = append(hints, "Net result is negative: revisit position sizing before adding risk.")
	}
	if strings.EqualFold(strings.TrimSpace(in.Risk), "HIGH") {
		hints = append(hints, "Returns point to a high risk profile; compare drawdowns before scaling up.")
	}
	if len(hints) > 3 {
		hints = hints[:3]
	}
	return hints
}
