package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vampirenirmal/qualitygate/internal/core"
)

// Config is one immutable snapshot of everything the quality gate needs.
// It is loaded once at startup; a reload produces a new snapshot.
type Config struct {
	Variation  int                        `yaml:"variation" validate:"required,min=1,max=10"`
	Components map[string]ComponentLength `yaml:"components" validate:"required,min=1,dive"`
	Guidance   map[string]GuidanceTable   `yaml:"guidance" validate:"required,min=1,dive,min=1"`
	Voices     map[string][]string        `yaml:"voices" validate:"required,min=1,dive,min=1,dive,required"`
	AITells    []AITellRule               `yaml:"ai_tells" validate:"omitempty,dive"`
	Scoring    Scoring                    `yaml:"scoring"`
	Limits     Limits                     `yaml:"limits" validate:"required"`
}

// ComponentLength is the word budget for one component type.
// The legacy form is a bare integer, read as Target with no explicit bounds.
type ComponentLength struct {
	Target      int `yaml:"target" validate:"required,min=1"`
	ExplicitMin int `yaml:"explicit_min,omitempty" validate:"omitempty,min=1,ltefield=Target"`
	ExplicitMax int `yaml:"explicit_max,omitempty" validate:"omitempty,gtefield=Target"`
}

func (c *ComponentLength) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var target int
		if err := value.Decode(&target); err != nil {
			return fmt.Errorf("line %d: component length must be an integer or mapping: %w", value.Line, err)
		}
		*c = ComponentLength{Target: target}
		return nil
	}
	type plain ComponentLength
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = ComponentLength(p)
	return nil
}

// GuidanceTable maps tier name (low, moderate, high) to context key to text.
type GuidanceTable map[string]map[string]string

// AITellRule is one entry of a configuration-supplied AI-tell catalogue.
type AITellRule struct {
	Label   string `yaml:"label" validate:"required"`
	Pattern string `yaml:"pattern" validate:"required"`
}

var tierNames = map[string]bool{"low": true, "moderate": true, "high": true}

// Load reads the configuration from the path named by QUALITYGATE_CONFIG,
// falling back to the XDG config directory.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(getConfigPath())
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(expandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Environment may pin the slider for a deployment without editing the file
	if raw := os.Getenv("QUALITYGATE_VARIATION"); raw != "" {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, core.NewConfigurationError("config", "QUALITYGATE_VARIATION", raw, core.ErrInvalidConfig, "must be an integer")
		}
		cfg.Variation = v
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// ComponentTypes returns the configured component types in sorted order
func (c *Config) ComponentTypes() []string {
	names := make([]string, 0, len(c.Components))
	for name := range c.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getConfigPath() string {
	// 1. Explicit config path via environment variable
	if path := os.Getenv("QUALITYGATE_CONFIG"); path != "" {
		return path
	}

	// 2. XDG_CONFIG_HOME (XDG Base Directory Specification)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "qualitygate", "config.yaml")
	}

	// 3. Default to ~/.config/qualitygate/config.yaml
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "qualitygate", "config.yaml")
}

// expandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	c.Limits.applyDefaults()
	c.Scoring.applyDefaults()

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return core.NewConfigurationError("config", "struct", nil, core.ErrInvalidConfig,
			fmt.Sprintf("config validation failed: %v", err))
	}

	// Tier keys are free-form YAML; check them here so a typo does not
	// silently produce empty guidance.
	params := make([]string, 0, len(c.Guidance))
	for name := range c.Guidance {
		params = append(params, name)
	}
	sort.Strings(params)
	for _, name := range params {
		for tier := range c.Guidance[name] {
			if !tierNames[tier] {
				return core.NewConfigurationError("config", "guidance."+name, tier, core.ErrInvalidConfig,
					"Guidance tier must be one of low, moderate, high")
			}
		}
	}

	return nil
}
