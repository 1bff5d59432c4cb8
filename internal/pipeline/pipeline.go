package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yksassistant/hakem/internal/cache"
	"github.com/yksassistant/hakem/internal/i18n"
	"github.com/yksassistant/hakem/internal/llm"
	"github.com/yksassistant/hakem/internal/model"
	"github.com/yksassistant/hakem/internal/score"
	"github.com/yksassistant/hakem/internal/standardize"
	"github.com/yksassistant/hakem/internal/worker"
)

// ErrNoProvider is returned by Measure when no LLM provider is configured
var ErrNoProvider = errors.New("no LLM provider configured")

// Assessor turns one raw record into a full assessment in one language
type Assessor struct {
	standardizer *standardize.Standardizer
	scorer       *score.Scorer
}

// NewAssessor creates an assessor; a nil translator selects Turkish
func NewAssessor(cfg model.ScoringConfig, msg *i18n.Translator) *Assessor {
	return &Assessor{
		standardizer: standardize.NewStandardizer(nil, cfg.LowConfidence),
		scorer:       score.NewScorer(cfg, nil, msg),
	}
}

// Assess normalizes and scores one record
func (a *Assessor) Assess(raw model.RawQuestion) model.Assessment {
	return a.scorer.Calculate(a.standardizer.Standardize(raw))
}

// Pipeline orchestrates assessment and image measurement
type Pipeline struct {
	assessors   map[string]*Assessor
	defaultLang string
	provider    llm.Provider
	cache       cache.Cache
	limiter     *worker.Limiter
	batch       *worker.BatchProcessor
	config      *model.Config
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithProvider replaces the provider built from configuration
func WithProvider(p llm.Provider) Option {
	return func(pl *Pipeline) { pl.provider = p }
}

// WithCache replaces the cache built from configuration
func WithCache(c cache.Cache) Option {
	return func(pl *Pipeline) { pl.cache = c }
}

// NewPipeline creates a new pipeline with the given configuration. The LLM
// provider is optional; without one only Measure is unavailable.
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	catalog := i18n.Default()
	lang := cfg.Lang
	if !catalog.Supports(lang) {
		slog.Warn("unsupported language, using default", "lang", lang, "default", i18n.DefaultLang)
		lang = i18n.DefaultLang
	}

	p := &Pipeline{
		assessors:   make(map[string]*Assessor),
		defaultLang: lang,
		cache:       cache.New(cfg.Cache),
		limiter:     worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		batch:       worker.NewBatchProcessor(cfg.Concurrency.Workers),
		config:      cfg,
	}
	for _, l := range catalog.Languages() {
		p.assessors[l] = NewAssessor(cfg.Scoring, catalog.Translator(l))
	}

	// explicit options win over configuration
	for _, opt := range opts {
		opt(p)
	}
	if p.provider == nil && cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, fmt.Errorf("init LLM provider: %w", err)
		}
		p.provider = provider
	}

	return p, nil
}

// Provider returns the configured provider, or nil
func (p *Pipeline) Provider() llm.Provider {
	return p.provider
}

// Assessor returns the assessor for lang, falling back to the default language
func (p *Pipeline) Assessor(lang string) *Assessor {
	if a, ok := p.assessors[lang]; ok {
		return a
	}
	return p.assessors[p.defaultLang]
}

// Assess scores one record in the language carried by ctx
func (p *Pipeline) Assess(ctx context.Context, raw model.RawQuestion) model.Assessment {
	return p.Assessor(i18n.LangFromContext(ctx, p.defaultLang)).Assess(raw)
}

// AssessBatch scores records concurrently; results keep input order
func (p *Pipeline) AssessBatch(ctx context.Context, raws []model.RawQuestion) []*worker.AssessResult {
	return p.batch.ProcessRecords(ctx, p, raws)
}

// MeasureBatch extracts and scores image files concurrently
func (p *Pipeline) MeasureBatch(ctx context.Context, paths []string) []*worker.MeasureResult {
	return p.batch.ProcessImages(ctx, p, paths)
}

// Measure reads a question image through the LLM provider and assesses the
// extracted record. Extractions are cached by image, provider and model.
func (p *Pipeline) Measure(ctx context.Context, img llm.Image, id string) (*model.Measurement, error) {
	if p.provider == nil {
		return nil, ErrNoProvider
	}

	reqID := llm.NewRequestID()
	m := &model.Measurement{RequestID: reqID, Provider: p.provider.Name()}

	// 1. Cached extraction
	key := cache.ExtractionKey(img.Data, p.provider.Name(), p.config.LLM.Model)
	if cache.GetJSON(p.cache, key, &m.Extraction) {
		m.Cached = true
		slog.Debug("extraction cache hit", "req_id", reqID, "key", key)
	} else {
		// 2. Pace provider calls
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}

		// 3. Contract-guarded extraction
		ext, err := llm.ExtractQuestion(ctx, p.provider, img, reqID)
		if err != nil {
			return nil, err
		}
		m.Extraction = *ext

		// 4. Remember it
		if err := cache.SetJSON(p.cache, key, ext, 0); err != nil {
			slog.Warn("extraction cache write failed", "req_id", reqID, "error", err)
		}
	}

	// 5. Score the extracted record
	fallbackID := id
	if fallbackID == "" {
		fallbackID = reqID
	}
	m.Assessment = p.Assess(ctx, m.Extraction.ToRaw(fallbackID))

	return m, nil
}
