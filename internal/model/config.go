package model

import "time"

// Config is the complete hakem configuration
type Config struct {
	Lang         string            `yaml:"lang" mapstructure:"lang"`
	Scoring      ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ScoringConfig holds every threshold and reference value the scorers read
type ScoringConfig struct {
	LowConfidence float64          `yaml:"low_confidence" mapstructure:"low_confidence"`
	Guard         GuardConfig      `yaml:"guard" mapstructure:"guard"`
	Reference     ReferenceProfile `yaml:"reference" mapstructure:"reference"`
}

// GuardConfig holds the clarity guard thresholds
type GuardConfig struct {
	MinQuestionLength      int     `yaml:"min_question_length" mapstructure:"min_question_length"`
	HighSimilarity         float64 `yaml:"high_similarity" mapstructure:"high_similarity"`
	UniformLengthVariance  float64 `yaml:"uniform_length_variance" mapstructure:"uniform_length_variance"`
	HighPremiseCount       int     `yaml:"high_premise_count" mapstructure:"high_premise_count"`
	ShortStemLength        int     `yaml:"short_stem_length" mapstructure:"short_stem_length"`
	LongTextLength         int     `yaml:"long_text_length" mapstructure:"long_text_length"`
	SingleTokenMaxLength   int     `yaml:"single_token_max_length" mapstructure:"single_token_max_length"`
	SingleAnswerSimilarity float64 `yaml:"single_answer_similarity" mapstructure:"single_answer_similarity"`
	NegativeNumericChoices int     `yaml:"negative_numeric_choices" mapstructure:"negative_numeric_choices"`
	PassFormat             float64 `yaml:"pass_format" mapstructure:"pass_format"`
	EscalateFormat         float64 `yaml:"escalate_format" mapstructure:"escalate_format"`
	EscalateClarity        float64 `yaml:"escalate_clarity" mapstructure:"escalate_clarity"`
	EscalateSingleAnswer   float64 `yaml:"escalate_single_answer" mapstructure:"escalate_single_answer"`
}

// Range is a trapezoid: full credit near the optimal midpoint, none outside Min..Max
type Range struct {
	Min        float64 `yaml:"min" mapstructure:"min"`
	OptimalMin float64 `yaml:"optimal_min" mapstructure:"optimal_min"`
	OptimalMax float64 `yaml:"optimal_max" mapstructure:"optimal_max"`
	Max        float64 `yaml:"max" mapstructure:"max"`
}

// FeatureWeights weight the similarity sub-features in the composite
type FeatureWeights struct {
	CharLength        float64 `yaml:"char_length" mapstructure:"char_length"`
	TokenLength       float64 `yaml:"token_length" mapstructure:"token_length"`
	SentenceCount     float64 `yaml:"sentence_count" mapstructure:"sentence_count"`
	StemPatterns      float64 `yaml:"stem_patterns" mapstructure:"stem_patterns"`
	Connectors        float64 `yaml:"connectors" mapstructure:"connectors"`
	ChoiceTypes       float64 `yaml:"choice_types" mapstructure:"choice_types"`
	FigureConsistency float64 `yaml:"figure_consistency" mapstructure:"figure_consistency"`
	PremiseStructure  float64 `yaml:"premise_structure" mapstructure:"premise_structure"`
}

// Total returns the sum of all weights
func (w FeatureWeights) Total() float64 {
	return w.CharLength + w.TokenLength + w.SentenceCount + w.StemPatterns +
		w.Connectors + w.ChoiceTypes + w.FigureConsistency + w.PremiseStructure
}

// ReferenceProfile is the typical shape of a reference exam question
type ReferenceProfile struct {
	CharLength    Range          `yaml:"char_length" mapstructure:"char_length"`
	TokenLength   Range          `yaml:"token_length" mapstructure:"token_length"`
	SentenceCount Range          `yaml:"sentence_count" mapstructure:"sentence_count"`
	Weights       FeatureWeights `yaml:"weights" mapstructure:"weights"`
}

// LLMConfig configures the provider used by the extraction step
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, fireworks, together, anthropic, ollama, ""
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig configures the extraction cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig paces calls to each LLM provider
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	MaxBatchSize   int           `yaml:"max_batch_size" mapstructure:"max_batch_size"`

	// per-client pacing of /v1/measure; zero disables it
	ClientRequestsPerSecond float64 `yaml:"client_requests_per_second" mapstructure:"client_requests_per_second"`
	ClientBurst             int     `yaml:"client_burst" mapstructure:"client_burst"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	PrettyJSON    bool `yaml:"pretty_json" mapstructure:"pretty_json"`
	WriteMarkdown bool `yaml:"write_markdown" mapstructure:"write_markdown"`
}

// DefaultGuardConfig returns the calibrated clarity guard thresholds
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MinQuestionLength:      15,
		HighSimilarity:         0.85,
		UniformLengthVariance:  0.1,
		HighPremiseCount:       3,
		ShortStemLength:        50,
		LongTextLength:         300,
		SingleTokenMaxLength:   5,
		SingleAnswerSimilarity: 0.7,
		NegativeNumericChoices: 4,
		PassFormat:             0.5,
		EscalateFormat:         0.7,
		EscalateClarity:        0.7,
		EscalateSingleAnswer:   0.6,
	}
}

// DefaultReferenceProfile returns the reference exam style profile
func DefaultReferenceProfile() ReferenceProfile {
	return ReferenceProfile{
		CharLength:    Range{Min: 50, OptimalMin: 100, OptimalMax: 350, Max: 500},
		TokenLength:   Range{Min: 10, OptimalMin: 20, OptimalMax: 60, Max: 100},
		SentenceCount: Range{Min: 1, OptimalMin: 2, OptimalMax: 5, Max: 8},
		Weights: FeatureWeights{
			CharLength:        1.0,
			TokenLength:       0.8,
			SentenceCount:     0.6,
			StemPatterns:      1.5,
			Connectors:        0.5,
			ChoiceTypes:       1.0,
			FigureConsistency: 1.2,
			PremiseStructure:  0.8,
		},
	}
}

// DefaultScoringConfig returns the scoring defaults
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		LowConfidence: 0.5,
		Guard:         DefaultGuardConfig(),
		Reference:     DefaultReferenceProfile(),
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Lang:    "tr",
		Scoring: DefaultScoringConfig(),
		LLM: LLMConfig{
			Provider:    "", // extraction disabled until configured
			Timeout:     60,
			MaxTokens:   2048,
			Temperature: 0.1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".hakem-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1.0,
			BurstSize:         2,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			RequestTimeout: 90 * time.Second,
			MaxUploadBytes: 10 << 20,
			MaxBatchSize:   500,
			ClientBurst:    1,
		},
		Output: OutputConfig{
			PrettyJSON: true,
		},
	}
}
