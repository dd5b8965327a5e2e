package normalize

import (
	"strings"

	"github.com/optionslab/optionslab-client/internal/apiclient"
)

type MarketAsset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// Assets trims and upper-cases symbols, drops entries without one, keeps the
// first entry per symbol and falls back to the symbol as display name.
func (n *Normalizer) Assets(raws []apiclient.RawAsset) []MarketAsset {
	out := make([]MarketAsset, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for _, raw := range raws {
		symbol := strings.ToUpper(strings.TrimSpace(raw.Symbol))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, MarketAsset{
			Symbol:   symbol,
			Name:     firstNonBlank(symbol, raw.Name),
			Exchange: strings.ToUpper(strings.TrimSpace(raw.Exchange)),
			Currency: strings.ToUpper(strings.TrimSpace(raw.Currency)),
		})
	}
	return out
}
