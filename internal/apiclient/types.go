package apiclient

// Numeric fields below are typed any: the API sends numbers, locale-formatted
// strings ("12,5%") or null for the same field. The normalize package turns
// them into typed view records.

type RawSimulation struct {
	ID             any    `json:"id"`
	Name           string `json:"name"`
	StrategyName   string `json:"strategyName"`
	AssetSymbol    string `json:"assetSymbol"`
	Ticker         string `json:"ticker"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	InitialCapital any    `json:"initialCapital"`
	FinalCapital   any    `json:"finalCapital"`
	TotalReturn    any    `json:"totalReturn"`
	WinRate        any    `json:"winRate"`
	MaxDrawdown    any    `json:"maxDrawdown"`
	CreatedAt      string `json:"createdAt"`
}

type RawStatistics struct {
	TotalSimulations      any `json:"totalSimulations"`
	ConcludedSimulations  any `json:"concludedSimulations"`
	InProgressSimulations any `json:"inProgressSimulations"`
	WinRate               any `json:"winRate"`
	AvgReturn             any `json:"avgReturn"`
	BestReturn            any `json:"bestReturn"`
	WorstReturn           any `json:"worstReturn"`
}

type RawAsset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// Strategy is a catalog entry as served by /strategies.
type Strategy struct {
	ID              any      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Bias            string   `json:"bias"`
	RiskLevel       string   `json:"riskLevel"`
	ExperienceLevel string   `json:"experienceLevel"`
	Tags            []string `json:"tags"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

type User struct {
	ID    any    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserProfile struct {
	UserID          any    `json:"userId"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ExperienceLevel string `json:"experienceLevel"`
	Bio             string `json:"bio,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

type ProfileUpdate struct {
	Name            string `json:"name,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

type NewSimulation struct {
	Name           string  `json:"name"`
	StrategyID     string  `json:"strategyId"`
	AssetSymbol    string  `json:"assetSymbol"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	InitialCapital float64 `json:"initialCapital"`
}
