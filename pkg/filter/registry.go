package filter

import (
	"fmt"
	"log"
	"maps"
	"slices"
)

// Constructor builds a filter from its manifest entry.
type Constructor func(spec Spec, notify ChangeFunc) (Filter, error)

// Registry maps type tags to constructors. Register every tag before the
// first Create, registering is not safe for concurrent use.
type Registry struct {
	constructors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: map[string]Constructor{}}
}

// DefaultRegistry knows the text, set and partition filters.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TextType, NewTextFilter)
	r.Register(SetType, NewSetFilter)
	r.Register(PartitionType, NewPartitionFilter)
	return r
}

// Register adds a constructor for the tag, an existing tag is overwritten.
func (r *Registry) Register(tag string, constructor Constructor) {
	if _, found := r.constructors[tag]; found {
		log.Printf("filter type %q registered again, replacing constructor", tag)
	}
	r.constructors[tag] = constructor
}

func (r *Registry) Tags() []string {
	return slices.Sorted(maps.Keys(r.constructors))
}

func (r *Registry) Create(spec Spec, notify ChangeFunc) (Filter, error) {
	constructor, ok := r.constructors[spec.Type]
	if !ok || constructor == nil {
		return nil, &ConfigError{Key: spec.Key, Reason: fmt.Sprintf("unregistered filter type %q", spec.Type)}
	}
	f, err := constructor(spec, notify)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func Register(tag string, constructor Constructor) {
	DefaultRegistry.Register(tag, constructor)
}

func Create(spec Spec, notify ChangeFunc) (Filter, error) {
	return DefaultRegistry.Create(spec, notify)
}
