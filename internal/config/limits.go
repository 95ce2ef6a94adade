package config

import (
	"time"
)

// Limits bounds retries and batch evaluation. Unset fields take DefaultLimits values.
type Limits struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"required,min=1,max=10"`
	Workers     int           `yaml:"workers" validate:"required,min=1,max=100"`
	ItemTimeout time.Duration `yaml:"item_timeout" validate:"required,min=1ms,max=10m"`
}

// Scoring holds the documented analysis defaults the orchestrator may tune.
// Unset fields take DefaultScoring values.
type Scoring struct {
	VariationPercent int     `yaml:"variation_percent" validate:"required,min=1,max=100"`
	AIThreshold      float64 `yaml:"ai_threshold" validate:"required,gt=0,lt=1"`
}

// DefaultLimits returns the limits used for fields the configuration leaves unset.
func DefaultLimits() Limits {
	return Limits{
		MaxAttempts: 3,
		Workers:     4,
		ItemTimeout: 5 * time.Second,
	}
}

// DefaultScoring mirrors quality.DefaultVariationPercent and quality.DefaultAIThreshold.
func DefaultScoring() Scoring {
	return Scoring{
		VariationPercent: 50,
		AIThreshold:      0.70,
	}
}

// applyDefaults fills zero fields only; configured values are kept
func (l *Limits) applyDefaults() {
	d := DefaultLimits()
	if l.MaxAttempts == 0 {
		l.MaxAttempts = d.MaxAttempts
	}
	if l.Workers == 0 {
		l.Workers = d.Workers
	}
	if l.ItemTimeout == 0 {
		l.ItemTimeout = d.ItemTimeout
	}
}

func (s *Scoring) applyDefaults() {
	d := DefaultScoring()
	if s.VariationPercent == 0 {
		s.VariationPercent = d.VariationPercent
	}
	if s.AIThreshold == 0 {
		s.AIThreshold = d.AIThreshold
	}
}
