package strategy

// GetSuggestedStrategies returns catalog entries open to level whose risk tier
// equals risk, in catalog order. When no entry matches the tier exactly, every
// entry open to level is returned instead.
func GetSuggestedStrategies(level ExperienceLevel, risk RiskProfile) []Descriptor {
	var eligible, matched []Descriptor
	for _, d := range Catalog() {
		if d.MinLevel > level {
			continue
		}
		eligible = append(eligible, d)
		if d.Risk == risk {
			matched = append(matched, d)
		}
	}
	if len(matched) == 0 {
		return eligible
	}
	return matched
}
