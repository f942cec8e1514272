package filter

import (
	"github.com/matst80/slask-filters/pkg/types"
)

const (
	TextType      = "text"
	SetType       = "set"
	PartitionType = "partition"
)

// Value holds the payload of a filter. Depending on the filter type it is
// nil (no constraint), types.Text, []types.SetItem or []string partition keys.
type Value any

// Values maps filter keys to their values.
type Values map[string]Value

// ChangeFunc is called synchronously after a filter value has changed. The
// value is a copy owned by the receiver, reason is a free text tag for
// diagnostics.
type ChangeFunc func(key string, value Value, reason string)

type TextSpec struct {
	Label            string   `json:"label"`
	Hint             string   `json:"hint,omitempty"`
	PlaceholderNames []string `json:"placeholderNames,omitempty"`
}

// Spec is the manifest entry a filter is created from.
type Spec struct {
	Key             string                `json:"key"`
	Type            string                `json:"type"`
	Text            TextSpec              `json:"text"`
	Hidden          bool                  `json:"hidden,omitempty"`
	AlwaysOpen      bool                  `json:"alwaysOpen,omitempty"`
	AllowSearchText bool                  `json:"allowSearchText,omitempty"`
	Items           []types.PartitionItem `json:"items,omitempty"`
	AllValue        []string              `json:"allValue,omitempty"`
	DefaultValue    []string              `json:"defaultValue,omitempty"`
}

type Filter interface {
	Key() string
	Type() string
	Spec() Spec
	Hidden() bool
	Enabled() bool
	Enable(enabled bool)
	// Defined is false until the first Set.
	Defined() bool
	// Value returns a copy of the current value.
	Value() Value
	Set(value Value) error
	ParamsToFilters(params types.Params) Values
	FiltersToParams(values Values) (types.Params, error)
}

type baseFilter struct {
	spec    Spec
	notify  ChangeFunc
	enabled bool
	defined bool
}

func newBaseFilter(spec Spec, notify ChangeFunc) baseFilter {
	return baseFilter{
		spec:    spec,
		notify:  notify,
		enabled: true,
	}
}

func (b *baseFilter) Key() string {
	return b.spec.Key
}

func (b *baseFilter) Type() string {
	return b.spec.Type
}

func (b *baseFilter) Spec() Spec {
	return b.spec
}

func (b *baseFilter) Hidden() bool {
	return b.spec.Hidden
}

func (b *baseFilter) Enabled() bool {
	return b.enabled
}

func (b *baseFilter) Enable(enabled bool) {
	b.enabled = enabled
}

func (b *baseFilter) Defined() bool {
	return b.defined
}

func (b *baseFilter) upstreamSet(value Value, reason string) {
	b.defined = true
	if b.notify != nil {
		b.notify(b.spec.Key, value, reason)
	}
}
