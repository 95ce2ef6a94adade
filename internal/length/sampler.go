// Package length samples per-component word targets and judges drafts against them.
package length

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/vampirenirmal/qualitygate/internal/core"
)

const (
	MinVariation = 1
	MaxVariation = 10

	// DefaultMaxAttempts is the retry budget when the caller has none configured
	DefaultMaxAttempts = 3

	relaxedLowerFactor = 0.8
	relaxedUpperFactor = 1.2

	// Attempts numbered below this are judged strictly
	strictAttempts = 2
)

// Spec is the length budget for one component type.
type Spec struct {
	Target      int
	ExplicitMin int
	ExplicitMax int
}

// Sampler is immutable after construction and safe for concurrent use.
// A new variation setting means a new Sampler.
type Sampler struct {
	specs     map[string]Spec
	variation int
	rng       RandomSource
}

// NewSampler validates specs and the variation slider. A nil rng uses NewRandomSource.
func NewSampler(specs map[string]Spec, variation int, rng RandomSource) (*Sampler, error) {
	if variation < MinVariation || variation > MaxVariation {
		return nil, core.NewConfigurationError("length", "variation", variation, core.ErrInvalidConfig,
			fmt.Sprintf("variation must be between %d and %d", MinVariation, MaxVariation))
	}
	copied := make(map[string]Spec, len(specs))
	for name, spec := range specs {
		if spec.Target < 1 {
			return nil, core.NewConfigurationError("length", name, spec.Target, core.ErrInvalidConfig,
				"target word count must be at least 1")
		}
		copied[name] = spec
	}
	if rng == nil {
		rng = NewRandomSource()
	}
	return &Sampler{specs: copied, variation: variation, rng: rng}, nil
}

// Variation returns the slider this sampler was built with
func (s *Sampler) Variation() int {
	return s.variation
}

// VariationPercentage maps the slider onto the fraction of the target that
// the sampling window may deviate by: 0.10 + (slider/10)*0.50.
func (s *Sampler) VariationPercentage() float64 {
	return 0.10 + (float64(s.variation)/10.0)*0.50
}

// Spec returns the configured budget for componentType.
func (s *Sampler) Spec(componentType string) (Spec, error) {
	spec, ok := s.specs[componentType]
	if !ok {
		return Spec{}, core.NewConfigurationError("length", "component_type", componentType, core.ErrUnknownComponent,
			"no length spec configured")
	}
	return spec, nil
}

// Components lists configured component types in sorted order
func (s *Sampler) Components() []string {
	names := make([]string, 0, len(s.specs))
	for name := range s.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LengthRange returns the inclusive [min, max] word window for componentType.
func (s *Sampler) LengthRange(componentType string) (int, int, error) {
	spec, err := s.Spec(componentType)
	if err != nil {
		return 0, 0, err
	}
	variationWords := int(math.Floor(float64(spec.Target) * s.VariationPercentage()))
	minWords := spec.Target - variationWords
	if minWords < 1 {
		minWords = 1
	}
	return minWords, spec.Target + variationWords, nil
}

// TargetLength draws a fresh target from the component's window. Successive
// calls are expected to differ.
func (s *Sampler) TargetLength(componentType string) (int, error) {
	minWords, maxWords, err := s.LengthRange(componentType)
	if err != nil {
		return 0, err
	}
	target := s.rng.IntInRange(minWords, maxWords)
	slog.Debug("Sampled target length",
		"component_type", componentType,
		"min_words", minWords,
		"max_words", maxWords,
		"target", target,
	)
	return target, nil
}

// IsLengthValid reports whether text's word count falls inside the component's
// window. Relaxed mode widens the window by 20% on both sides. Blank text is
// never valid.
func (s *Sampler) IsLengthValid(text, componentType string, strict bool) (bool, error) {
	minWords, maxWords, err := s.LengthRange(componentType)
	if err != nil {
		return false, err
	}
	count := CountWords(text)
	if count == 0 {
		return false, nil
	}
	if !strict {
		minWords, maxWords = relax(minWords, maxWords)
	}
	return count >= minWords && count <= maxWords, nil
}

// ShouldRetryForLength answers whether the orchestrator should request another
// draft. Attempts are numbered from 1: the first is judged strictly, later ones
// relaxed. Once attempt reaches maxAttempts the answer is always false.
func (s *Sampler) ShouldRetryForLength(text, componentType string, attempt, maxAttempts int) (bool, error) {
	if _, err := s.Spec(componentType); err != nil {
		return false, err
	}
	if attempt >= maxAttempts {
		return false, nil
	}
	valid, err := s.IsLengthValid(text, componentType, StrictFor(attempt))
	if err != nil {
		return false, err
	}
	return !valid, nil
}

// StrictFor reports whether attempt is judged against the strict window
func StrictFor(attempt int) bool {
	return attempt < strictAttempts
}

// relax rounds each bound in the direction that loosens it.
func relax(minWords, maxWords int) (int, int) {
	return int(math.Floor(float64(minWords) * relaxedLowerFactor)),
		int(math.Ceil(float64(maxWords) * relaxedUpperFactor))
}

// CountWords counts whitespace-delimited tokens in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}
