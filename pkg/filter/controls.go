package filter

import (
	"fmt"

	"github.com/matst80/slask-filters/pkg/types"
)

// Manifest describes the filters of a dashboard. Order lists the filter keys
// in display order, an empty entry is a visual separator.
type Manifest struct {
	Name    string          `json:"name"`
	Order   []string        `json:"order"`
	Filters map[string]Spec `json:"filters"`
}

// OrderedSpecs returns the specs in display order, skipping separators.
func (m *Manifest) OrderedSpecs() []Spec {
	ret := make([]Spec, 0, len(m.Order))
	for _, key := range m.Order {
		if spec, ok := m.Filters[key]; ok {
			if spec.Key == "" {
				spec.Key = key
			}
			ret = append(ret, spec)
		}
	}
	return ret
}

// Controls is the filter collection of one dashboard. It is not safe for
// concurrent use, callers serialise access.
type Controls struct {
	filters []Filter
	byKey   map[string]Filter
}

func NewControls(registry *Registry, manifest *Manifest, notify ChangeFunc) (*Controls, error) {
	if registry == nil {
		registry = DefaultRegistry
	}
	c := &Controls{
		filters: make([]Filter, 0, len(manifest.Order)),
		byKey:   make(map[string]Filter, len(manifest.Order)),
	}
	for _, key := range manifest.Order {
		if key == "" {
			continue
		}
		spec, ok := manifest.Filters[key]
		if !ok {
			return nil, &ConfigError{Key: key, Reason: "no filter manifest for key in order"}
		}
		if spec.Key == "" {
			spec.Key = key
		}
		if spec.Key != key {
			return nil, &ConfigError{Key: key, Reason: fmt.Sprintf("manifest key mismatch %q", spec.Key)}
		}
		if _, found := c.byKey[key]; found {
			return nil, &ConfigError{Key: key, Reason: "filter listed twice in order"}
		}
		f, err := registry.Create(spec, notify)
		if err != nil {
			return nil, err
		}
		c.filters = append(c.filters, f)
		c.byKey[key] = f
	}
	return c, nil
}

func (c *Controls) Filters() []Filter {
	return c.filters
}

func (c *Controls) Filter(key string) (Filter, error) {
	f, ok := c.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	return f, nil
}

// ParamsToFilters decodes the parameters of every filter.
func (c *Controls) ParamsToFilters(params types.Params) Values {
	ret := make(Values, len(c.filters))
	for _, f := range c.filters {
		for key, value := range f.ParamsToFilters(params) {
			ret[key] = value
		}
	}
	return ret
}

// FiltersToParams encodes the values of every filter, the first failing
// filter aborts the whole encoding.
func (c *Controls) FiltersToParams(values Values) (types.Params, error) {
	ret := types.Params{}
	for _, f := range c.filters {
		params, err := f.FiltersToParams(values)
		if err != nil {
			return nil, err
		}
		ret.Merge(params)
	}
	return ret, nil
}

// Apply sets the value of every filter present in values. Unknown keys are
// ignored.
func (c *Controls) Apply(values Values) error {
	for _, f := range c.filters {
		value, ok := values[f.Key()]
		if !ok {
			continue
		}
		if err := f.Set(value); err != nil {
			return err
		}
	}
	return nil
}

// ApplyParams decodes the parameters and sets every filter from them.
func (c *Controls) ApplyParams(params types.Params) error {
	return c.Apply(c.ParamsToFilters(params))
}

// Values returns copies of the values of all defined filters.
func (c *Controls) Values() Values {
	ret := make(Values, len(c.filters))
	for _, f := range c.filters {
		if f.Defined() {
			ret[f.Key()] = f.Value()
		}
	}
	return ret
}

func (c *Controls) Params() (types.Params, error) {
	return c.FiltersToParams(c.Values())
}

func (c *Controls) Enable(enabled bool) {
	for _, f := range c.filters {
		f.Enable(enabled)
	}
}
