// Package widget owns the content model of an article: the catalog of
// widget types, the configuration schema of each type, and the
// validation/normalization of persisted widget collections.
package widget

import "sync"

type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindAny    Kind = "any"
)

// Constraint restricts a single config value. Enum applies to strings,
// Min/Max to numbers, Fields/Required to nested objects.
type Constraint struct {
	Kind     Kind
	Enum     []string
	Min      *float64
	Max      *float64
	Fields   map[string]Constraint
	Required []string
}

// Optional is an optional config field together with the default the
// normalizer fills in when the field is absent. Defaults must satisfy
// their own constraint, otherwise a normalized collection would warn on
// revalidation.
type Optional struct {
	Constraint Constraint
	Default    any
}

// Schema declares what a valid config looks like for one widget type.
type Schema struct {
	Required map[string]Constraint
	Optional map[string]Optional
}

// Registry is the single source of truth for widget types. Adding a type
// is a Register call; the validator never dispatches on type names itself.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Schema
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Schema)}
}

// Register adds or replaces the schema for a widget type.
func (r *Registry) Register(name string, s *Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = s
}

// SchemaFor returns the schema for a type, or false for an unregistered
// type. Unregistered types are passed through by the validator, so callers
// must treat false as "opaque", not as an error.
func (r *Registry) SchemaFor(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.types[name]
	return s, ok
}

func minMax(min, max float64) (*float64, *float64) {
	return &min, &max
}

// DefaultRegistry returns the registry with all built-in widget types.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("text", &Schema{
		Required: map[string]Constraint{
			"body": {Kind: KindString},
		},
		Optional: map[string]Optional{
			"format": {
				Constraint: Constraint{Kind: KindString, Enum: []string{"plain", "markdown", "html"}},
				Default:    "markdown",
			},
		},
	})

	r.Register("image", &Schema{
		Required: map[string]Constraint{
			"url": {Kind: KindString},
		},
		Optional: map[string]Optional{
			"alt":     {Constraint: Constraint{Kind: KindString}, Default: ""},
			"caption": {Constraint: Constraint{Kind: KindString}, Default: ""},
		},
	})

	r.Register("quote", &Schema{
		Required: map[string]Constraint{
			"body": {Kind: KindString},
		},
		Optional: map[string]Optional{
			"attribution": {Constraint: Constraint{Kind: KindString}, Default: ""},
		},
	})

	r.Register("embed", &Schema{
		Required: map[string]Constraint{
			"url": {Kind: KindString},
		},
		Optional: map[string]Optional{
			"provider": {Constraint: Constraint{Kind: KindString}, Default: ""},
		},
	})

	doctor := Constraint{
		Kind: KindObject,
		Fields: map[string]Constraint{
			"name":  {Kind: KindString},
			"title": {Kind: KindString},
			"image": {Kind: KindString},
		},
		Required: []string{"name"},
	}

	ratingMin, ratingMax := minMax(0, 5)
	r.Register("doctor-assessment", &Schema{
		Required: map[string]Constraint{
			"doctor": doctor,
			"body":   {Kind: KindString},
		},
		Optional: map[string]Optional{
			"rating": {
				Constraint: Constraint{Kind: KindNumber, Min: ratingMin, Max: ratingMax},
				Default:    float64(0),
			},
			"highlight": {Constraint: Constraint{Kind: KindBool}, Default: false},
		},
	})

	r.Register("doctor-closing-word", &Schema{
		Required: map[string]Constraint{
			"doctor": doctor,
			"body":   {Kind: KindString},
		},
		Optional: map[string]Optional{
			"signature": {Constraint: Constraint{Kind: KindString}, Default: ""},
		},
	})

	return r
}
