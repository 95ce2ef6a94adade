// Package gate composes the length sampler, parameter engine and quality
// analyzer into the surface a generation orchestrator talks to.
package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vampirenirmal/qualitygate/internal/config"
	"github.com/vampirenirmal/qualitygate/internal/length"
	"github.com/vampirenirmal/qualitygate/internal/params"
	"github.com/vampirenirmal/qualitygate/internal/quality"
)

// Draft is one generated attempt submitted for judgement.
type Draft struct {
	Ref           string `json:"ref,omitempty"`
	ComponentType string `json:"component_type"`
	Variant       string `json:"variant"`
	Text          string `json:"text"`
	Attempt       int    `json:"attempt"` // numbered from 1
	TargetWords   int    `json:"target_words,omitempty"`
}

// ID identifies the draft in logs and verdicts: Ref when set, otherwise
// component/variant#attempt.
func (d Draft) ID() string {
	if d.Ref != "" {
		return d.Ref
	}
	return fmt.Sprintf("%s/%s#%d", d.ComponentType, d.Variant, d.Attempt)
}

// Plan is what the prompt layer needs before generating an attempt.
type Plan struct {
	ComponentType string              `json:"component_type"`
	TargetWords   int                 `json:"target_words"`
	MinWords      int                 `json:"min_words"`
	MaxWords      int                 `json:"max_words"`
	Guidance      []params.Snippet    `json:"guidance"`
	Sections      map[string][]string `json:"sections"`
}

// Verdict is the gate's answer for one draft.
type Verdict struct {
	ID          string         `json:"id"`
	DraftRef    string         `json:"draft_ref"`
	Attempt     int            `json:"attempt"`
	TargetWords int            `json:"target_words"`
	Report      quality.Report `json:"report"`
	StrictCheck bool           `json:"strict_check"`
	LengthValid bool           `json:"length_valid"`
	Accepted    bool           `json:"accepted"`
	Retry       bool           `json:"retry"`
	Exhausted   bool           `json:"exhausted"`
}

// Gate is built once from a configuration snapshot and is safe for
// concurrent use.
type Gate struct {
	sampler  *length.Sampler
	engine   *params.Engine
	analyzer *quality.Analyzer
	limits   config.Limits
	scoring  config.Scoring
	logger   *slog.Logger
}

// Option configures a Gate
type Option func(*options)

type options struct {
	logger *slog.Logger
	rng    length.RandomSource
}

// WithLogger routes gate logging to logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRandomSource replaces the sampler's random source, mainly for tests
func WithRandomSource(rng length.RandomSource) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// New builds every component from cfg. Any configuration problem is returned
// immediately; nothing is defaulted.
func New(cfg *config.Config, opts ...Option) (*Gate, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	specs := make(map[string]length.Spec, len(cfg.Components))
	for name, c := range cfg.Components {
		specs[name] = length.Spec{Target: c.Target, ExplicitMin: c.ExplicitMin, ExplicitMax: c.ExplicitMax}
	}
	sampler, err := length.NewSampler(specs, cfg.Variation, o.rng)
	if err != nil {
		return nil, fmt.Errorf("building length sampler: %w", err)
	}

	tables := make(map[string]map[string]map[string]string, len(cfg.Guidance))
	for name, table := range cfg.Guidance {
		tables[name] = table
	}
	engine, err := params.NewEngineFromConfig(params.Builtins(), tables)
	if err != nil {
		return nil, fmt.Errorf("building parameter engine: %w", err)
	}

	catalogue, err := catalogueFor(cfg)
	if err != nil {
		return nil, err
	}
	analyzer, err := quality.NewAnalyzer(quality.VoiceProfile(cfg.Voices), catalogue)
	if err != nil {
		return nil, fmt.Errorf("building quality analyzer: %w", err)
	}

	o.logger.Info("Quality gate ready",
		"components", len(specs),
		"variation", cfg.Variation,
		"variants", len(cfg.Voices),
		"ai_catalogue_version", catalogue.Version,
		"ai_catalogue_rules", len(catalogue.Rules),
	)

	return &Gate{
		sampler:  sampler,
		engine:   engine,
		analyzer: analyzer,
		limits:   cfg.Limits,
		scoring:  cfg.Scoring,
		logger:   o.logger,
	}, nil
}

// catalogueFor prefers a configuration-supplied list over the embedded one.
// A supplied list has version 0.
func catalogueFor(cfg *config.Config) (quality.Catalogue, error) {
	if len(cfg.AITells) == 0 {
		return quality.DefaultCatalogue()
	}
	rules := make([]quality.Rule, 0, len(cfg.AITells))
	for _, r := range cfg.AITells {
		rules = append(rules, quality.Rule{Label: r.Label, Pattern: r.Pattern})
	}
	return quality.Catalogue{Rules: rules}, nil
}

// Sampler returns the length sampler built from the configuration.
func (g *Gate) Sampler() *length.Sampler { return g.sampler }

// Engine returns the parameter guidance engine.
func (g *Gate) Engine() *params.Engine { return g.engine }

// Analyzer returns the draft quality analyzer.
func (g *Gate) Analyzer() *quality.Analyzer { return g.analyzer }

// MaxAttempts is the configured retry budget per draft.
func (g *Gate) MaxAttempts() int { return g.limits.MaxAttempts }

// Plan samples a target for componentType and resolves guidance for knobs
// against that target.
func (g *Gate) Plan(componentType string, knobs map[string]int) (Plan, error) {
	minWords, maxWords, err := g.sampler.LengthRange(componentType)
	if err != nil {
		return Plan{}, err
	}
	target, err := g.sampler.TargetLength(componentType)
	if err != nil {
		return Plan{}, err
	}
	snippets, err := g.engine.BuildGuidance(knobs, target)
	if err != nil {
		return Plan{}, err
	}

	g.logger.Debug("Planned attempt",
		"component_type", componentType,
		"target_words", target,
		"guidance_count", len(snippets),
	)

	return Plan{
		ComponentType: componentType,
		TargetWords:   target,
		MinWords:      minWords,
		MaxWords:      maxWords,
		Guidance:      snippets,
		Sections:      params.GroupByConsumer(snippets),
	}, nil
}

// Evaluate judges one draft. Quality failures are reported in the Verdict;
// only configuration problems and cancellation are errors.
func (g *Gate) Evaluate(ctx context.Context, d Draft) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	spec, err := g.sampler.Spec(d.ComponentType)
	if err != nil {
		return Verdict{}, err
	}
	target := d.TargetWords
	if target <= 0 {
		target = spec.Target
	}

	strict := length.StrictFor(d.Attempt)
	lengthValid, err := g.sampler.IsLengthValid(d.Text, d.ComponentType, strict)
	if err != nil {
		return Verdict{}, err
	}
	lengthRetry, err := g.sampler.ShouldRetryForLength(d.Text, d.ComponentType, d.Attempt, g.limits.MaxAttempts)
	if err != nil {
		return Verdict{}, err
	}

	report := g.analyzer.Analyze(d.Text, d.Variant, target,
		quality.WithVariationPercent(g.scoring.VariationPercent),
		quality.WithAIThreshold(g.scoring.AIThreshold),
	)

	exhausted := d.Attempt >= g.limits.MaxAttempts
	accepted := report.PassesAllChecks && lengthValid
	verdict := Verdict{
		ID:          uuid.New().String(),
		DraftRef:    d.ID(),
		Attempt:     d.Attempt,
		TargetWords: target,
		Report:      report,
		StrictCheck: strict,
		LengthValid: lengthValid,
		Accepted:    accepted,
		Retry:       !exhausted && (lengthRetry || !report.PassesAllChecks),
		Exhausted:   exhausted,
	}

	g.logger.Info("Draft evaluated",
		"verdict_id", verdict.ID,
		"draft", verdict.DraftRef,
		"accepted", verdict.Accepted,
		"retry", verdict.Retry,
		"overall_quality", report.OverallQuality,
		"voice_score", report.Voice.PatternScore,
		"word_count", report.Length.WordCount,
		"ai_score", report.AI.AIScore,
	)
	if !report.Voice.Supported {
		g.logger.Warn("Voice variant has no profile", "variant", d.Variant)
	}

	return verdict, nil
}

// EvaluateBatch judges drafts concurrently on the configured worker count.
// Verdicts come back in input order.
func (g *Gate) EvaluateBatch(ctx context.Context, drafts []Draft) ([]Verdict, error) {
	pool := NewWorkerPool[Draft, Verdict](
		WithWorkers(g.limits.Workers),
		WithItemTimeout(g.limits.ItemTimeout),
		WithPoolLogger(g.logger),
	)
	return pool.Process(ctx, drafts, g.Evaluate)
}
