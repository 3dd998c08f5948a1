package widget

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// sortedKeys is slices.Sorted(maps.Keys(m)) spelled out for toolchains
// older than Go 1.23.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Widget is one parsed element of a collection. Config aliases the backing
// element map, so normalization is visible on re-serialization. Known is
// false for types absent from the registry; such widgets are opaque and
// round-trip untouched.
type Widget struct {
	Type   string
	ID     string
	Config map[string]any
	Known  bool

	raw map[string]any
}

// Collection is an ordered widget sequence. Order is rendering order and
// must survive every read-modify-write cycle.
type Collection []Widget

func (c Collection) MarshalJSON() ([]byte, error) {
	elems := make([]map[string]any, len(c))
	for i, w := range c {
		if w.raw != nil {
			elems[i] = w.raw
			continue
		}
		cfg := w.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		elem := map[string]any{"type": w.Type, "config": cfg}
		if w.ID != "" {
			elem["id"] = w.ID
		}
		elems[i] = elem
	}
	return json.Marshal(elems)
}

// Warning is a recoverable, per-widget issue. The widget it points at is
// retained unless Excluded is set, which only happens when the element is
// structurally unparseable.
type Warning struct {
	Index    int
	Type     string
	Reason   string
	Excluded bool
}

func (w Warning) String() string {
	if w.Type == "" {
		return fmt.Sprintf("widget[%d]: %s", w.Index, w.Reason)
	}
	return fmt.Sprintf("widget[%d] (%s): %s", w.Index, w.Type, w.Reason)
}

// Validate parses a raw widget collection, checks every element against
// the registry and normalizes recoverable issues. Malformed JSON or a
// non-array document fails with *ParseError; everything else degrades to
// warnings. Unknown config keys and element order are preserved.
func (r *Registry) Validate(raw []byte) (Collection, []Warning, error) {
	// json.Unmarshal accepts the document "null" into a slice, which
	// would wipe the stored collection, so the array check is on the
	// document itself.
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, &ParseError{Msg: "expected a JSON array"}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, nil, &ParseError{Msg: "expected a JSON array", Err: err}
	}

	out := make(Collection, 0, len(elems))
	var warnings []Warning
	seenIDs := make(map[string]bool)

	for i, e := range elems {
		var elem map[string]any
		if err := json.Unmarshal(e, &elem); err != nil {
			warnings = append(warnings, Warning{Index: i, Reason: "element is not an object, excluded", Excluded: true})
			continue
		}

		typ, ok := elem["type"].(string)
		if !ok || typ == "" {
			warnings = append(warnings, Warning{Index: i, Reason: "missing type tag, excluded", Excluded: true})
			continue
		}

		cfg, warn, excluded := configOf(elem)
		if excluded {
			warnings = append(warnings, Warning{Index: i, Type: typ, Reason: warn, Excluded: true})
			continue
		}

		id, _ := elem["id"].(string)
		if id != "" {
			if seenIDs[id] {
				warnings = append(warnings, Warning{Index: i, Type: typ, Reason: fmt.Sprintf("duplicate widget id %q", id)})
			}
			seenIDs[id] = true
		}

		w := Widget{Type: typ, ID: id, Config: cfg, raw: elem}

		schema, known := r.SchemaFor(typ)
		w.Known = known
		if !known {
			warnings = append(warnings, Warning{Index: i, Type: typ, Reason: "unknown widget type, passed through"})
			out = append(out, w)
			continue
		}

		for _, reason := range checkConfig(cfg, schema) {
			warnings = append(warnings, Warning{Index: i, Type: typ, Reason: reason})
		}
		out = append(out, w)
	}

	return out, warnings, nil
}

// configOf extracts the config object of an element, attaching an empty
// one when absent. A non-object config makes the element unrenderable and
// excludes it.
func configOf(elem map[string]any) (map[string]any, string, bool) {
	v, ok := elem["config"]
	if !ok || v == nil {
		cfg := map[string]any{}
		elem["config"] = cfg
		return cfg, "", false
	}
	cfg, ok := v.(map[string]any)
	if !ok {
		return nil, "config is not an object, excluded", true
	}
	return cfg, "", false
}

// checkConfig validates cfg against the schema and fills declared defaults
// for absent optional fields. Violations are returned as warning reasons;
// the widget is always retained.
func checkConfig(cfg map[string]any, schema *Schema) []string {
	var reasons []string

	for _, name := range sortedKeys(schema.Required) {
		v, ok := cfg[name]
		if !ok {
			reasons = append(reasons, fmt.Sprintf("missing required field %q", name))
			continue
		}
		reasons = append(reasons, checkValue(name, v, schema.Required[name])...)
	}

	for _, name := range sortedKeys(schema.Optional) {
		opt := schema.Optional[name]
		v, ok := cfg[name]
		if !ok {
			cfg[name] = opt.Default
			continue
		}
		reasons = append(reasons, checkValue(name, v, opt.Constraint)...)
	}

	return reasons
}

func checkValue(path string, v any, c Constraint) []string {
	switch c.Kind {
	case KindAny:
		return nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return []string{fmt.Sprintf("field %q must be a string", path)}
		}
		if len(c.Enum) > 0 && !slices.Contains(c.Enum, s) {
			return []string{fmt.Sprintf("field %q must be one of [%s]", path, strings.Join(c.Enum, ", "))}
		}
		return nil

	case KindNumber:
		n, ok := v.(float64)
		if !ok {
			return []string{fmt.Sprintf("field %q must be a number", path)}
		}
		var reasons []string
		if c.Min != nil && n < *c.Min {
			reasons = append(reasons, fmt.Sprintf("field %q must be >= %v", path, *c.Min))
		}
		if c.Max != nil && n > *c.Max {
			reasons = append(reasons, fmt.Sprintf("field %q must be <= %v", path, *c.Max))
		}
		return reasons

	case KindBool:
		if _, ok := v.(bool); !ok {
			return []string{fmt.Sprintf("field %q must be a boolean", path)}
		}
		return nil

	case KindArray:
		if _, ok := v.([]any); !ok {
			return []string{fmt.Sprintf("field %q must be an array", path)}
		}
		return nil

	case KindObject:
		m, ok := v.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("field %q must be an object", path)}
		}
		var reasons []string
		for _, req := range c.Required {
			if _, ok := m[req]; !ok {
				reasons = append(reasons, fmt.Sprintf("field %q missing required key %q", path, req))
			}
		}
		for _, name := range sortedKeys(c.Fields) {
			if vv, ok := m[name]; ok {
				reasons = append(reasons, checkValue(path+"."+name, vv, c.Fields[name])...)
			}
		}
		return reasons
	}

	return nil
}
