package model

import "time"

// Config holds all runtime configuration. Thresholds are never hardwired in
// the processing packages; callers pass them in from here.
type Config struct {
	Institution InstitutionConfig `yaml:"institution" mapstructure:"institution"`
	Matching    MatchingConfig    `yaml:"matching" mapstructure:"matching"`
	Routing     RoutingConfig     `yaml:"routing" mapstructure:"routing"`
	Validator   ValidatorConfig   `yaml:"validator" mapstructure:"validator"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Catalog     CatalogConfig     `yaml:"catalog" mapstructure:"catalog"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// InstitutionConfig names the operating institution for the relevance filter
type InstitutionConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// MatchingConfig tunes the lexical catalog matcher
type MatchingConfig struct {
	// RecallThreshold feeds the semantic validator: keep it low so weak
	// candidates still get a semantic verdict.
	RecallThreshold float64 `yaml:"recall_threshold" mapstructure:"recall_threshold"`
	// AcceptThreshold applies in lexical-only mode (validator disabled).
	AcceptThreshold float64 `yaml:"accept_threshold" mapstructure:"accept_threshold"`
	MinFragmentLen  int     `yaml:"min_fragment_len" mapstructure:"min_fragment_len"`
	NGramMin        int     `yaml:"ngram_min" mapstructure:"ngram_min"`
	NGramMax        int     `yaml:"ngram_max" mapstructure:"ngram_max"`
}

// RoutingConfig holds the confidence cutoffs for the routing decision
type RoutingConfig struct {
	AutoProcess float64 `yaml:"auto_process" mapstructure:"auto_process"`
	HumanReview float64 `yaml:"human_review" mapstructure:"human_review"`
}

// ValidatorConfig configures the semantic validation capability
type ValidatorConfig struct {
	// Provider: "openai" or "" (disabled, lexical-only)
	Provider     string  `yaml:"provider" mapstructure:"provider"`
	Model        string  `yaml:"model" mapstructure:"model"`
	APIKey       string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout      int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens    int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	CatalogLimit int     `yaml:"catalog_limit" mapstructure:"catalog_limit"` // entries sent per request
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst        int     `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig bounds the worker pools
type ConcurrencyConfig struct {
	PeriodWorkers int `yaml:"period_workers" mapstructure:"period_workers"` // (party × match) fan-out
	BatchWorkers  int `yaml:"batch_workers" mapstructure:"batch_workers"`   // documents in a batch
}

// CacheConfig configures the validator response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// CatalogConfig points at the catalog file and maps its field names.
// Source files have used inconsistent casing over time, so the mapping is
// explicit instead of guessed.
type CatalogConfig struct {
	Path          string `yaml:"path" mapstructure:"path"`
	IDField       string `yaml:"id_field" mapstructure:"id_field"`
	NameField     string `yaml:"name_field" mapstructure:"name_field"`
	DescField     string `yaml:"desc_field" mapstructure:"desc_field"`
	ExamplesField string `yaml:"examples_field" mapstructure:"examples_field"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the defaults; every value can be overridden by
// config file, SIGILO_* environment variables, or flags.
func DefaultConfig() *Config {
	return &Config{
		Institution: InstitutionConfig{Name: ""},
		Matching: MatchingConfig{
			RecallThreshold: 0.50,
			AcceptThreshold: 0.75,
			MinFragmentLen:  10,
			NGramMin:        3,
			NGramMax:        5,
		},
		Routing: RoutingConfig{
			AutoProcess: 0.75,
			HumanReview: 0.50,
		},
		Validator: ValidatorConfig{
			Provider:     "", // Disabled by default
			Model:        "gpt-4o-mini",
			Timeout:      60,
			MaxTokens:    4096,
			CatalogLimit: 50,
			RatePerSec:   2,
			Burst:        4,
		},
		Concurrency: ConcurrencyConfig{
			PeriodWorkers: 8,
			BatchWorkers:  4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Catalog: CatalogConfig{
			IDField:       "id",
			NameField:     "name",
			DescField:     "description",
			ExamplesField: "examples",
		},
	}
}
