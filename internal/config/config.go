// Package config manages application configuration.
package config

// Config represents the application configuration.
type Config struct {
	DefaultProvider string              `yaml:"default_provider"`
	Providers       map[string]Provider `yaml:"providers"`
	Style           string              `yaml:"style"` // publication style id for contract lookup (e.g. "ieee")
	ContractsPath   string              `yaml:"contracts_path,omitempty"`
	Scoring         Scoring             `yaml:"scoring"`
	Logging         Logging             `yaml:"logging"`
}

// Provider represents a hint provider configuration.
type Provider struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Endpoint  string `yaml:"endpoint,omitempty"` // for self-hosted or custom endpoints
}

// Logging contains logger construction options.
type Logging struct {
	Style string `yaml:"style"` // terminal, json, noop
	Level string `yaml:"level"` // debug, info, warn, error
}

// Scoring holds the heading-detection and classification weights. The values
// are empirically tuned; they are exposed here so a deployment can adjust
// them without a rebuild.
type Scoring struct {
	HeadingThreshold   float64 `yaml:"heading_threshold"`
	NumberingWeight    float64 `yaml:"numbering_weight"`
	KeywordWeight      float64 `yaml:"keyword_weight"`
	StyleLargeWeight   float64 `yaml:"style_large_weight"`
	StyleAboveWeight   float64 `yaml:"style_above_weight"`
	BoldWeight         float64 `yaml:"bold_weight"`
	AllCapsWeight      float64 `yaml:"all_caps_weight"`
	PunctuationPenalty float64 `yaml:"punctuation_penalty"`
	FallbackConfidence float64 `yaml:"fallback_confidence"`
	LargeFontRatio     float64 `yaml:"large_font_ratio"`

	PositionFirstBoost    float64 `yaml:"position_first_boost"`
	PositionIsolatedBoost float64 `yaml:"position_isolated_boost"`
	PositionBlankBoost    float64 `yaml:"position_blank_boost"`
	PositionEarlyBoost    float64 `yaml:"position_early_boost"`
	PositionBoostMax      float64 `yaml:"position_boost_max"`

	KeywordMaxLen  int `yaml:"keyword_max_len"`
	StyleMaxLen    int `yaml:"style_max_len"`
	FallbackMaxLen int `yaml:"fallback_max_len"`
	GuardMaxLen    int `yaml:"guard_max_len"`
	TitleMinLen    int `yaml:"title_min_len"`
	TitleMaxLen    int `yaml:"title_max_len"`

	FrontMatterMaxBlocks int     `yaml:"front_matter_max_blocks"`
	FrontMatterMaxChars  int     `yaml:"front_matter_max_chars"`
	CommaBonus           float64 `yaml:"comma_bonus"`
	HintConfidenceFloor  float64 `yaml:"hint_confidence_floor"`
	BodyBaseline         float64 `yaml:"body_baseline"`
}

// DefaultScoring returns the tuned default weights.
func DefaultScoring() Scoring {
	return Scoring{
		HeadingThreshold:   0.5,
		NumberingWeight:    0.8,
		KeywordWeight:      0.5,
		StyleLargeWeight:   0.5,
		StyleAboveWeight:   0.2,
		BoldWeight:         0.3,
		AllCapsWeight:      0.2,
		PunctuationPenalty: 0.3,
		FallbackConfidence: 0.3,
		LargeFontRatio:     1.2,

		PositionFirstBoost:    0.15,
		PositionIsolatedBoost: 0.15,
		PositionBlankBoost:    0.05,
		PositionEarlyBoost:    0.1,
		PositionBoostMax:      0.45,

		KeywordMaxLen:  50,
		StyleMaxLen:    120,
		FallbackMaxLen: 60,
		GuardMaxLen:    120,
		TitleMinLen:    5,
		TitleMaxLen:    200,

		FrontMatterMaxBlocks: 20,
		FrontMatterMaxChars:  300,
		CommaBonus:           0.1,
		HintConfidenceFloor:  0.5,
		BodyBaseline:         0.3,
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "anthropic",
		Providers: map[string]Provider{
			"openai": {
				APIKey:    "${OPENAI_API_KEY}",
				Model:     "gpt-4o-mini",
				MaxTokens: 4096,
			},
			"anthropic": {
				APIKey:    "${ANTHROPIC_API_KEY}",
				Model:     "claude-3-5-sonnet-20241022",
				MaxTokens: 4096,
			},
			"gemini": {
				APIKey:    "${GOOGLE_API_KEY}",
				Model:     "gemini-1.5-flash",
				MaxTokens: 4096,
			},
		},
		Style:   "ieee",
		Scoring: DefaultScoring(),
		Logging: Logging{
			Style: "terminal",
			Level: "info",
		},
	}
}

// GetProvider returns the provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.DefaultProvider)
}
