package params

// DefaultContextKey is used by parameters whose guidance does not vary with context
const DefaultContextKey = "default"

// Length bucket thresholds, in target words
const (
	shortMaxWords  = 30
	mediumMaxWords = 100
)

// ContextRule says how a parameter derives its guidance context key.
type ContextRule int

const (
	ContextDefault ContextRule = iota
	ContextLengthBucket
)

// Key derives the context key for a request with the given target length
func (r ContextRule) Key(targetWords int) string {
	if r != ContextLengthBucket {
		return DefaultContextKey
	}
	switch {
	case targetWords <= shortMaxWords:
		return "short"
	case targetWords <= mediumMaxWords:
		return "medium"
	default:
		return "long"
	}
}

func (r ContextRule) String() string {
	if r == ContextLengthBucket {
		return "length_bucket"
	}
	return DefaultContextKey
}

// Descriptor is documentation metadata. Nothing at runtime branches on it.
type Descriptor struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Scale       string `json:"scale" yaml:"scale"`
	Description string `json:"description" yaml:"description"`
	Consumer    string `json:"consumer" yaml:"consumer"`
}

// Definition is the full per-parameter declaration.
type Definition struct {
	Name        string
	Category    string
	Description string
	Consumer    string
	Scale       Scale
	Context     ContextRule
}

// Descriptor returns the metadata the prompt layer shows for this parameter.
func (d Definition) Descriptor() Descriptor {
	return Descriptor{
		Name:        d.Name,
		Category:    d.Category,
		Scale:       d.Scale.String(),
		Description: d.Description,
		Consumer:    d.Consumer,
	}
}

// Instance is one knob value for one request.
type Instance struct {
	Definition Definition
	Raw        int
	Normalized float64
	Tier       Tier
}

// NewInstance validates raw against the definition's scale and tiers it.
func NewInstance(def Definition, raw int) (Instance, error) {
	normalized, err := def.Scale.Normalize(raw)
	if err != nil {
		return Instance{}, err
	}
	return Instance{
		Definition: def,
		Raw:        raw,
		Normalized: normalized,
		Tier:       def.Scale.TierFor(normalized),
	}, nil
}

// GenerateGuidance looks up text for this instance's tier. An empty
// contextKey means DefaultContextKey. Missing entries yield "".
func (i Instance) GenerateGuidance(table GuidanceTable, contextKey string) string {
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	return table[i.Tier][contextKey]
}
