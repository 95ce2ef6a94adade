package quality

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/vampirenirmal/qualitygate/internal/core"
)

//go:embed ai_tells.yaml
var aiTellsYAML []byte

// Rule is one AI-tell entry: a human label and a pattern.
type Rule struct {
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
}

// Catalogue is the fixed list of AI-tell patterns. It is not learned.
type Catalogue struct {
	Version int    `yaml:"version"`
	Rules   []Rule `yaml:"phrases"`
}

// DefaultCatalogue returns the embedded catalogue.
func DefaultCatalogue() (Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(aiTellsYAML, &c); err != nil {
		return Catalogue{}, fmt.Errorf("parsing embedded ai tell catalogue: %w", err)
	}
	if len(c.Rules) == 0 {
		return Catalogue{}, core.NewConfigurationError("quality", "ai_tells", nil, core.ErrInvalidConfig,
			"embedded catalogue is empty")
	}
	return c, nil
}

type compiledRule struct {
	label string
	re    *regexp.Regexp
}

// compilePattern makes every rule case-insensitive and multi-line aware.
func compilePattern(source, field, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?im)` + pattern)
	if err != nil {
		return nil, core.NewConfigurationError(source, field, pattern, core.ErrInvalidPattern, err.Error())
	}
	return re, nil
}

func (c Catalogue) compile() ([]compiledRule, error) {
	rules := make([]compiledRule, 0, len(c.Rules))
	for _, r := range c.Rules {
		re, err := compilePattern("quality", "ai_tells."+r.Label, r.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, compiledRule{label: r.Label, re: re})
	}
	return rules, nil
}
