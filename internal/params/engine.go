package params

import (
	"log/slog"
	"sort"

	"github.com/vampirenirmal/qualitygate/internal/core"
)

// Snippet is one piece of guidance ready for prompt assembly.
type Snippet struct {
	Parameter string `json:"parameter"`
	Consumer  string `json:"consumer"`
	Tier      string `json:"tier"`
	Text      string `json:"text"`
}

// Engine binds parameter definitions to their guidance tables. It is
// immutable after construction.
type Engine struct {
	defs   []Definition
	byName map[string]int
	tables map[string]GuidanceTable
}

// NewEngine requires a guidance table for every definition.
func NewEngine(defs []Definition, tables map[string]GuidanceTable) (*Engine, error) {
	e := &Engine{
		defs:   make([]Definition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
		tables: make(map[string]GuidanceTable, len(defs)),
	}
	for _, def := range defs {
		if _, dup := e.byName[def.Name]; dup {
			return nil, core.NewConfigurationError("params", "name", def.Name, core.ErrInvalidConfig,
				"parameter declared twice")
		}
		table, ok := tables[def.Name]
		if !ok {
			return nil, core.NewConfigurationError("params", def.Name, nil, core.ErrMissingGuidance,
				"no guidance table configured")
		}
		e.byName[def.Name] = len(e.defs)
		e.defs = append(e.defs, def)
		e.tables[def.Name] = table
	}
	for name := range tables {
		if _, ok := e.byName[name]; !ok {
			slog.Warn("Guidance table has no matching parameter", "parameter", name)
		}
	}
	return e, nil
}

// NewEngineFromConfig parses string-keyed tables and binds them to defs.
func NewEngineFromConfig(defs []Definition, raw map[string]map[string]map[string]string) (*Engine, error) {
	tables := make(map[string]GuidanceTable, len(raw))
	for name, entries := range raw {
		table, err := ParseTable(entries)
		if err != nil {
			return nil, err
		}
		tables[name] = table
	}
	return NewEngine(defs, tables)
}

// Definition returns the declaration for name.
func (e *Engine) Definition(name string) (Definition, error) {
	idx, ok := e.byName[name]
	if !ok {
		return Definition{}, core.NewConfigurationError("params", "name", name, core.ErrUnknownParameter,
			"parameter not declared")
	}
	return e.defs[idx], nil
}

// Instance validates raw for the named parameter.
func (e *Engine) Instance(name string, raw int) (Instance, error) {
	def, err := e.Definition(name)
	if err != nil {
		return Instance{}, err
	}
	return NewInstance(def, raw)
}

// Guidance returns the text for the named parameter at raw, using the
// parameter's context rule against targetWords. Missing text is "".
func (e *Engine) Guidance(name string, raw, targetWords int) (string, error) {
	inst, err := e.Instance(name, raw)
	if err != nil {
		return "", err
	}
	return inst.GenerateGuidance(e.tables[name], inst.Definition.Context.Key(targetWords)), nil
}

// BuildGuidance resolves every supplied knob in declaration order and drops
// empty snippets. Unknown knob names and out-of-scale values are errors.
func (e *Engine) BuildGuidance(knobs map[string]int, targetWords int) ([]Snippet, error) {
	for name := range knobs {
		if _, ok := e.byName[name]; !ok {
			return nil, core.NewConfigurationError("params", "name", name, core.ErrUnknownParameter,
				"parameter not declared")
		}
	}

	snippets := make([]Snippet, 0, len(knobs))
	for _, def := range e.defs {
		raw, ok := knobs[def.Name]
		if !ok {
			continue
		}
		inst, err := NewInstance(def, raw)
		if err != nil {
			return nil, err
		}
		text := inst.GenerateGuidance(e.tables[def.Name], def.Context.Key(targetWords))
		if text == "" {
			continue
		}
		snippets = append(snippets, Snippet{
			Parameter: def.Name,
			Consumer:  def.Consumer,
			Tier:      inst.Tier.String(),
			Text:      text,
		})
	}
	return snippets, nil
}

// GroupByConsumer buckets snippets for the prompt sections that consume them.
func GroupByConsumer(snippets []Snippet) map[string][]string {
	grouped := make(map[string][]string)
	for _, s := range snippets {
		grouped[s.Consumer] = append(grouped[s.Consumer], s.Text)
	}
	return grouped
}

// Describe lists descriptors sorted by name
func (e *Engine) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(e.defs))
	for _, def := range e.defs {
		out = append(out, def.Descriptor())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
