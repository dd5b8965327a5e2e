package strategy

import (
	"fmt"
	"strings"
)

// ExperienceLevel gates which strategies a user is shown. Levels are ordered.
type ExperienceLevel int

const (
	Novice ExperienceLevel = iota
	Intermediate
	Advanced
	Expert
)

var levelNames = [...]string{"NOVICE", "INTERMEDIATE", "ADVANCED", "EXPERT"}

func (l ExperienceLevel) String() string {
	if l < Novice || l > Expert {
		return fmt.Sprintf("ExperienceLevel(%d)", int(l))
	}
	return levelNames[l]
}

func (l ExperienceLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// ParseExperienceLevel accepts level names case-insensitively.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return ExperienceLevel(i), nil
		}
	}
	return Novice, fmt.Errorf("strategy: unknown experience level %q", s)
}

type RiskProfile string

const (
	RiskLow    RiskProfile = "LOW"
	RiskMedium RiskProfile = "MEDIUM"
	RiskHigh   RiskProfile = "HIGH"
)

func ParseRiskProfile(s string) (RiskProfile, error) {
	switch r := RiskProfile(strings.ToUpper(strings.TrimSpace(s))); r {
	case RiskLow, RiskMedium, RiskHigh:
		return r, nil
	}
	return RiskMedium, fmt.Errorf("strategy: unknown risk profile %q", s)
}

type Bias string

const (
	Bullish  Bias = "BULLISH"
	Bearish  Bias = "BEARISH"
	Neutral  Bias = "NEUTRAL"
	Volatile Bias = "VOLATILE"
)

// Descriptor is a static catalog entry.
type Descriptor struct {
	Name        string          `json:"name"`
	Bias        Bias            `json:"bias"`
	Risk        RiskProfile     `json:"risk"`
	MinLevel    ExperienceLevel `json:"minLevel"`
	Tags        []string        `json:"tags"`
	Description string          `json:"description"`
}

var catalog = []Descriptor{
	{
		Name:        "Long Call",
		Bias:        Bullish,
		Risk:        RiskMedium,
		MinLevel:    Novice,
		Tags:        []string{"directional", "limited-risk", "leverage"},
		Description: "Buy a call to profit from a rise in the underlying with loss capped at the premium paid.",
	},
	{
		Name:        "Long Put",
		Bias:        Bearish,
		Risk:        RiskMedium,
		MinLevel:    Novice,
		Tags:        []string{"directional", "limited-risk", "hedge"},
		Description: "Buy a put to profit from a fall in the underlying with loss capped at the premium paid.",
	},
	{
		Name:        "Covered Call",
		Bias:        Neutral,
		Risk:        RiskLow,
		MinLevel:    Intermediate,
		Tags:        []string{"income", "stock-ownership"},
		Description: "Hold the stock and sell an out-of-the-money call against it to collect premium.",
	},
	{
		Name:        "Protective Put",
		Bias:        Bullish,
		Risk:        RiskLow,
		MinLevel:    Intermediate,
		Tags:        []string{"hedge", "stock-ownership", "insurance"},
		Description: "Hold the stock and buy a put to floor the loss on a decline.",
	},
	{
		Name:        "Bull Call Spread",
		Bias:        Bullish,
		Risk:        RiskMedium,
		MinLevel:    Intermediate,
		Tags:        []string{"spread", "defined-risk", "directional"},
		Description: "Buy a call and sell a higher-strike call to cheapen a bullish position.",
	},
	{
		Name:        "Bear Put Spread",
		Bias:        Bearish,
		Risk:        RiskMedium,
		MinLevel:    Intermediate,
		Tags:        []string{"spread", "defined-risk", "directional"},
		Description: "Buy a put and sell a lower-strike put to cheapen a bearish position.",
	},
	{
		Name:        "Iron Condor",
		Bias:        Neutral,
		Risk:        RiskMedium,
		MinLevel:    Advanced,
		Tags:        []string{"income", "defined-risk", "range-bound"},
		Description: "Sell an out-of-the-money put spread and call spread to profit while the price stays in range.",
	},
	{
		Name:        "Long Straddle",
		Bias:        Volatile,
		Risk:        RiskMedium,
		MinLevel:    Advanced,
		Tags:        []string{"volatility", "event"},
		Description: "Buy a call and a put at the same strike to profit from a large move either way.",
	},
	{
		Name:        "Synthetic Long Stock",
		Bias:        Bullish,
		Risk:        RiskHigh,
		MinLevel:    Advanced,
		Tags:        []string{"synthetic", "leverage", "undefined-risk"},
		Description: "Buy a call and sell a put at the same strike to replicate owning the stock.",
	},
	{
		Name:        "Short Straddle",
		Bias:        Neutral,
		Risk:        RiskHigh,
		MinLevel:    Expert,
		Tags:        []string{"volatility", "income", "undefined-risk"},
		Description: "Sell a call and a put at the same strike to collect premium when the price stays still.",
	},
	{
		Name:        "Naked Call",
		Bias:        Bearish,
		Risk:        RiskHigh,
		MinLevel:    Expert,
		Tags:        []string{"income", "undefined-risk"},
		Description: "Sell a call without owning the stock; loss is unbounded on a rally.",
	},
}

// Catalog returns a copy of the static strategy catalog in display order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	for i, d := range catalog {
		d.Tags = append([]string(nil), d.Tags...)
		out[i] = d
	}
	return out
}

// Lookup finds a catalog entry by name, ignoring case.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range Catalog() {
		if strings.EqualFold(d.Name, strings.TrimSpace(name)) {
			return d, true
		}
	}
	return Descriptor{}, false
}
