package config

// ScoringConfig holds every threshold table used by the analytics engines
type ScoringConfig struct {
	Health         HealthConfig
	Badges         []BadgeTier
	Issues         IssuesConfig
	LanguageColors map[string]string
}

// HealthConfig describes how each health sub-score is banded
type HealthConfig struct {
	// Activity tiers are checked in order; the first tier whose MaxDays exceeds
	// the days since the last update wins. Older repositories score 0.
	Activity    []ActivityTier
	Community   CommunityConfig
	Docs        DocumentationConfig
	Maintenance MaintenanceConfig
	MaxTotal    float64
}

// ActivityTier awards Points when the repository was updated less than MaxDays ago
type ActivityTier struct {
	MaxDays float64
	Points  float64
}

// CommunityConfig scales stars and forks into points
type CommunityConfig struct {
	StarsPerPoint float64
	MaxStarPoints float64
	ForksPerPoint float64
	MaxForkPoints float64
	Max           float64
}

// DocumentationConfig holds the additive documentation flags
type DocumentationConfig struct {
	DescriptionPoints float64
	WikiPoints        float64
	LicensePoints     float64
	Max               float64
}

// MaintenanceConfig bands the open-issues to stars ratio
type MaintenanceConfig struct {
	Tiers []RatioTier
	// Floor is awarded when no tier matches
	Floor float64
	Max   float64
}

// RatioTier awards Points when the ratio is strictly below MaxRatio
type RatioTier struct {
	MaxRatio float64
	Points   float64
}

// BadgeTier is a badge whose range starts at MinScore (inclusive)
type BadgeTier struct {
	MinScore  float64
	Tier      string
	Emoji     string
	Label     string
	Color     string
	TextClass string
	BgClass   string
}

// IssuesConfig sizes the issues analytics summary
type IssuesConfig struct {
	TimelineMonths int
	TopLabels      int
	HottestIssues  int
}

// DefaultScoringConfig returns the scoring tables used by the dashboard
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Health:         DefaultHealthConfig(),
		Badges:         DefaultBadgeTiers(),
		Issues:         DefaultIssuesConfig(),
		LanguageColors: DefaultLanguageColors(),
	}
}

// DefaultHealthConfig returns the standard 30/30/20/20 health weighting
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		Activity: []ActivityTier{
			{MaxDays: 7, Points: 30},
			{MaxDays: 30, Points: 20},
			{MaxDays: 90, Points: 10},
		},
		Community: CommunityConfig{
			StarsPerPoint: 1000,
			MaxStarPoints: 15,
			ForksPerPoint: 100,
			MaxForkPoints: 15,
			Max:           30,
		},
		Docs: DocumentationConfig{
			DescriptionPoints: 10,
			WikiPoints:        5,
			LicensePoints:     5,
			Max:               20,
		},
		Maintenance: MaintenanceConfig{
			Tiers: []RatioTier{
				{MaxRatio: 0.05, Points: 20},
				{MaxRatio: 0.10, Points: 15},
				{MaxRatio: 0.20, Points: 10},
			},
			Floor: 5,
			Max:   20,
		},
		MaxTotal: 100,
	}
}

// DefaultBadgeTiers returns the badge tiers ordered from best to worst
func DefaultBadgeTiers() []BadgeTier {
	return []BadgeTier{
		{MinScore: 90, Tier: "excellent", Emoji: "🟢", Label: "Excellent", Color: "green", TextClass: "text-green-700", BgClass: "bg-green-100"},
		{MinScore: 70, Tier: "good", Emoji: "🟡", Label: "Good", Color: "yellow", TextClass: "text-yellow-700", BgClass: "bg-yellow-100"},
		{MinScore: 50, Tier: "fair", Emoji: "🟠", Label: "Fair", Color: "orange", TextClass: "text-orange-700", BgClass: "bg-orange-100"},
		{MinScore: 0, Tier: "poor", Emoji: "🔴", Label: "Poor", Color: "red", TextClass: "text-red-700", BgClass: "bg-red-100"},
	}
}

// DefaultIssuesConfig returns the issues summary sizes
func DefaultIssuesConfig() IssuesConfig {
	return IssuesConfig{
		TimelineMonths: 6,
		TopLabels:      10,
		HottestIssues:  5,
	}
}

// DefaultLanguageColors returns the display colors of common languages
func DefaultLanguageColors() map[string]string {
	return map[string]string{
		"C":                "#555555",
		"C#":               "#178600",
		"C++":              "#f34b7d",
		"CSS":              "#563d7c",
		"Dart":             "#00B4AB",
		"Dockerfile":       "#384d54",
		"Elixir":           "#6e4a7e",
		"Go":               "#00ADD8",
		"HTML":             "#e34c26",
		"Java":             "#b07219",
		"JavaScript":       "#f1e05a",
		"Jupyter Notebook": "#DA5B0B",
		"Kotlin":           "#A97BFF",
		"Lua":              "#000080",
		"Makefile":         "#427819",
		"PHP":              "#4F5D95",
		"Python":           "#3572A5",
		"Ruby":             "#701516",
		"Rust":             "#dea584",
		"Scala":            "#c22d40",
		"Shell":            "#89e051",
		"Swift":            "#F05138",
		"TypeScript":       "#3178c6",
		"Vue":              "#41b883",
	}
}
