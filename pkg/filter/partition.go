package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matst80/slask-filters/pkg/types"
)

// AllParam is the query value that selects the whole universe.
const AllParam = "all"

// PartitionFilter selects a subset of a fixed universe of keys. The value is
// kept in declaration order.
type PartitionFilter struct {
	baseFilter
	items        []types.PartitionItem
	position     map[string]int
	allValue     []string
	defaultValue []string
	value        []string
	live         []string
	invalid      bool
}

func NewPartitionFilter(spec Spec, notify ChangeFunc) (Filter, error) {
	if spec.Key == "" {
		return nil, &ConfigError{Reason: "partition filter without key"}
	}
	if len(spec.Items) == 0 {
		return nil, &ConfigError{Key: spec.Key, Reason: "partition without items"}
	}
	f := &PartitionFilter{
		baseFilter: newBaseFilter(spec, notify),
		items:      slices.Clone(spec.Items),
		position:   make(map[string]int, len(spec.Items)),
		allValue:   make([]string, 0, len(spec.Items)),
	}
	defaultValue := make([]string, 0, len(spec.Items))
	for i, item := range spec.Items {
		if item.Key == "" || item.Key == AllParam {
			return nil, &ConfigError{Key: spec.Key, Reason: fmt.Sprintf("invalid partition item key %q", item.Key)}
		}
		if _, found := f.position[item.Key]; found {
			return nil, &ConfigError{Key: spec.Key, Reason: fmt.Sprintf("duplicate partition item key %q", item.Key)}
		}
		f.position[item.Key] = i
		f.allValue = append(f.allValue, item.Key)
		if item.Selected {
			defaultValue = append(defaultValue, item.Key)
		}
	}
	if spec.AllValue != nil && !sameKeySet(spec.AllValue, f.allValue) {
		return nil, &ConfigError{Key: spec.Key, Reason: "allValue does not match partition items"}
	}
	if spec.DefaultValue != nil {
		if !f.inUniverse(spec.DefaultValue) {
			return nil, &ConfigError{Key: spec.Key, Reason: "defaultValue is not a subset of partition items"}
		}
		defaultValue = f.ordered(spec.DefaultValue)
	}
	if len(defaultValue) == 0 {
		defaultValue = slices.Clone(f.allValue)
	}
	f.defaultValue = defaultValue
	return f, nil
}

func (f *PartitionFilter) inUniverse(keys []string) bool {
	for _, key := range keys {
		if _, ok := f.position[key]; !ok {
			return false
		}
	}
	return true
}

// ordered returns the known keys in declaration order without duplicates.
func (f *PartitionFilter) ordered(keys []string) []string {
	ret := make([]string, 0, len(keys))
	for _, key := range f.allValue {
		if slices.Contains(keys, key) {
			ret = append(ret, key)
		}
	}
	return ret
}

func asKeys(key string, value Value) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	default:
		return nil, valueTypeError(key, value)
	}
}

func (f *PartitionFilter) Items() []types.PartitionItem {
	return slices.Clone(f.items)
}

func (f *PartitionFilter) AllValue() []string {
	return slices.Clone(f.allValue)
}

func (f *PartitionFilter) DefaultValue() []string {
	return slices.Clone(f.defaultValue)
}

// Invalid is set when the interactive selection was emptied. It is advisory
// and does not affect the committed value.
func (f *PartitionFilter) Invalid() bool {
	return f.invalid
}

// Live returns the interactive selection, which may be empty.
func (f *PartitionFilter) Live() []string {
	return slices.Clone(f.live)
}

func (f *PartitionFilter) Value() Value {
	if f.value == nil {
		return nil
	}
	return slices.Clone(f.value)
}

func (f *PartitionFilter) Set(value Value) error {
	keys, err := asKeys(f.Key(), value)
	if err != nil {
		return err
	}
	if !f.inUniverse(keys) {
		return &ValueError{Key: f.Key(), Reason: fmt.Sprintf("keys %v outside of partition %v", keys, f.allValue)}
	}
	// an empty selection can never be encoded, keep the committed value
	if len(keys) == 0 {
		f.live = []string{}
		f.invalid = true
		return nil
	}
	keys = f.ordered(keys)
	f.live = slices.Clone(keys)
	f.invalid = false
	if f.defined && sameKeySet(keys, f.value) {
		return nil
	}
	f.value = keys
	f.upstreamSet(f.Value(), "update partition "+f.Key())
	return nil
}

// Toggle applies a checkbox edit to the interactive selection. An empty
// selection marks the filter invalid and leaves the value untouched.
func (f *PartitionFilter) Toggle(key string, checked bool) error {
	if _, ok := f.position[key]; !ok {
		return &ValueError{Key: f.Key(), Reason: fmt.Sprintf("unknown partition key %q", key)}
	}
	if !f.enabled {
		return nil
	}
	live := slices.DeleteFunc(slices.Clone(f.live), func(k string) bool {
		return k == key
	})
	if checked {
		live = f.ordered(append(live, key))
	}
	return f.Set(live)
}

func (f *PartitionFilter) ParamsToFilters(params types.Params) Values {
	raw, ok := params.Get(f.Key())
	if !ok {
		return Values{f.Key(): f.DefaultValue()}
	}
	if raw == AllParam {
		return Values{f.Key(): f.AllValue()}
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	selected := f.ordered(parts)
	// nothing recognised decodes to the default rather than an empty
	// selection, which could not be encoded again
	if len(selected) == 0 {
		return Values{f.Key(): f.DefaultValue()}
	}
	return Values{f.Key(): selected}
}

func (f *PartitionFilter) FiltersToParams(values Values) (types.Params, error) {
	keys, err := asKeys(f.Key(), values[f.Key()])
	if err != nil {
		return nil, &EncodingError{Key: f.Key(), Reason: err.Error()}
	}
	if keys == nil {
		return nil, &EncodingError{Key: f.Key(), Reason: "partition is empty"}
	}
	for _, key := range keys {
		if _, ok := f.position[key]; !ok {
			return nil, &EncodingError{
				Key:    f.Key(),
				Reason: fmt.Sprintf("unrecognised value %q, acceptable values are %s", key, strings.Join(f.allValue, ",")),
			}
		}
	}
	if len(keys) == 0 {
		return nil, &EncodingError{Key: f.Key(), Reason: "partition has no selection"}
	}
	params := types.Params{}
	switch {
	case sameKeySet(keys, f.defaultValue):
	case sameKeySet(keys, f.allValue):
		params[f.Key()] = AllParam
	default:
		params[f.Key()] = strings.Join(f.ordered(keys), ",")
	}
	return params, nil
}
