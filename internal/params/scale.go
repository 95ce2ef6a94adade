// Package params turns discrete style knobs into tiered guidance for the prompt layer.
package params

import (
	"fmt"
	"strings"

	"github.com/vampirenirmal/qualitygate/internal/core"
)

// Tier is the coarse intensity bucket a knob value falls into.
type Tier int

const (
	TierLow Tier = iota
	TierModerate
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierModerate:
		return "moderate"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier accepts the lowercase names used in configuration
func ParseTier(name string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return TierLow, nil
	case "moderate":
		return TierModerate, nil
	case "high":
		return TierHigh, nil
	}
	return 0, core.NewConfigurationError("params", "tier", name, core.ErrInvalidConfig,
		"tier must be one of low, moderate, high")
}

// Scale is the closed set of knob scales. All tiering math lives here.
type Scale int

const (
	Scale10 Scale = iota + 1
	Scale3
)

type scaleSpec struct {
	id            string
	min, max      int
	normalize     func(raw int) float64
	lowBelow      float64
	moderateBelow float64
}

var scaleSpecs = map[Scale]scaleSpec{
	Scale10: {
		id:            "scale_1_10",
		min:           1,
		max:           10,
		normalize:     func(raw int) float64 { return float64(raw-1) / 9.0 },
		lowBelow:      0.3,
		moderateBelow: 0.7,
	},
	Scale3: {
		id:            "scale_1_3",
		min:           1,
		max:           3,
		normalize:     func(raw int) float64 { return float64(raw-1) * 0.5 },
		lowBelow:      0.25,
		moderateBelow: 0.75,
	},
}

func (s Scale) spec() scaleSpec {
	spec, ok := scaleSpecs[s]
	if !ok {
		panic(fmt.Sprintf("params: undeclared scale %d", int(s)))
	}
	return spec
}

func (s Scale) String() string {
	return s.spec().id
}

// Range returns the inclusive raw bounds of the scale
func (s Scale) Range() (int, int) {
	spec := s.spec()
	return spec.min, spec.max
}

// Normalize maps a raw knob value onto [0,1]. Values outside the scale are
// rejected rather than clamped.
func (s Scale) Normalize(raw int) (float64, error) {
	spec := s.spec()
	if raw < spec.min || raw > spec.max {
		return 0, core.NewConfigurationError("params", spec.id, raw, core.ErrValueOutOfScale,
			fmt.Sprintf("value must be between %d and %d", spec.min, spec.max))
	}
	return spec.normalize(raw), nil
}

// TierFor buckets a normalized value. Lower thresholds are inclusive of the
// tier above them.
func (s Scale) TierFor(normalized float64) Tier {
	spec := s.spec()
	switch {
	case normalized < spec.lowBelow:
		return TierLow
	case normalized < spec.moderateBelow:
		return TierModerate
	default:
		return TierHigh
	}
}
