package normalize

import (
	"fmt"
	"strings"
)

// Placeholders used when every candidate field is empty.
const (
	PlaceholderName   = "Simulação sem nome"
	PlaceholderSymbol = "N/A"
)

// ResolveName picks the display name, then the strategy name, then the
// placeholder. Blank strings count as absent.
func ResolveName(displayName, strategyName string) string {
	return firstNonBlank(PlaceholderName, displayName, strategyName)
}

// ResolveSymbol picks the asset symbol, then the legacy ticker, then the
// placeholder.
func ResolveSymbol(assetSymbol, ticker string) string {
	return firstNonBlank(PlaceholderSymbol, assetSymbol, ticker)
}

func firstNonBlank(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return fallback
}

// idString renders a JSON id (number or string) as text.
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprint(id)
	default:
		return fmt.Sprint(id)
	}
}
