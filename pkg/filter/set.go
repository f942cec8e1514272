package filter

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matst80/slask-filters/pkg/types"
)

var searchTextRegex = regexp.MustCompile(`^"(.+)"$`)

// SetFilter holds nil or an ordered list of items that are unique by value.
type SetFilter struct {
	baseFilter
	items []types.SetItem
}

func NewSetFilter(spec Spec, notify ChangeFunc) (Filter, error) {
	if spec.Key == "" {
		return nil, &ConfigError{Reason: "set filter without key"}
	}
	return &SetFilter{baseFilter: newBaseFilter(spec, notify)}, nil
}

// asItems converts a value to a list without duplicate values, the first
// occurrence wins. An empty list is nil.
func asItems(key string, value Value) ([]types.SetItem, error) {
	var items []types.SetItem
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []types.SetItem:
		items = v
	case []string:
		items = make([]types.SetItem, len(v))
		for i, s := range v {
			items[i] = types.SetItem{Value: s}
		}
	default:
		return nil, valueTypeError(key, value)
	}
	ret := make([]types.SetItem, 0, len(items))
	for _, item := range items {
		if item.Value == "" {
			return nil, &ValueError{Key: key, Reason: "item without value"}
		}
		if !containsValue(ret, item.Value) {
			ret = append(ret, item)
		}
	}
	if len(ret) == 0 {
		return nil, nil
	}
	return ret, nil
}

func containsValue(items []types.SetItem, value string) bool {
	return slices.ContainsFunc(items, func(item types.SetItem) bool {
		return item.Value == value
	})
}

func (f *SetFilter) Value() Value {
	if f.items == nil {
		return nil
	}
	return types.CloneItems(f.items)
}

func (f *SetFilter) Items() []types.SetItem {
	return types.CloneItems(f.items)
}

func (f *SetFilter) Has(value string) bool {
	return containsValue(f.items, value)
}

// AllowSearchText reports if quoted free text items are accepted.
func (f *SetFilter) AllowSearchText() bool {
	return f.spec.AllowSearchText
}

// HasSearchText reports if one of the items is a quoted free text search.
func (f *SetFilter) HasSearchText() bool {
	return slices.ContainsFunc(f.items, func(item types.SetItem) bool {
		return IsSearchText(item.Value)
	})
}

func (f *SetFilter) Set(value Value) error {
	items, err := asItems(f.Key(), value)
	if err != nil {
		return err
	}
	if f.defined && itemsEqual(items, f.items) {
		return nil
	}
	f.items = items
	f.upstreamSet(f.Value(), "update")
	return nil
}

// AddItem appends the item unless an item with the same value is already
// selected. It reports whether the value changed.
func (f *SetFilter) AddItem(item types.SetItem) bool {
	if !f.enabled || item.Value == "" || containsValue(f.items, item.Value) {
		return false
	}
	f.items = append(types.CloneItems(f.items), item)
	f.upstreamSet(f.Value(), "add item")
	return true
}

// RemoveItem removes the item with the same value. Removing the last item
// clears the filter.
func (f *SetFilter) RemoveItem(item types.SetItem) bool {
	if !f.enabled {
		return false
	}
	idx := slices.IndexFunc(f.items, func(existing types.SetItem) bool {
		return existing.Value == item.Value
	})
	if idx == -1 {
		return false
	}
	f.items = slices.Delete(types.CloneItems(f.items), idx, idx+1)
	if len(f.items) == 0 {
		f.items = nil
	}
	f.upstreamSet(f.Value(), "remove item")
	return true
}

func (f *SetFilter) Clear() {
	if f.defined && f.items == nil {
		return
	}
	f.items = nil
	f.upstreamSet(nil, "clear")
}

// SplitParam splits on commas unless the comma is followed by a space, which
// keeps names like "Palestine, State of" in one piece.
func SplitParam(text string) []string {
	parts := strings.Split(text, ",")
	joined := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, " ") && len(joined) > 0 {
			joined[len(joined)-1] += "," + part
			continue
		}
		joined = append(joined, part)
	}
	ret := make([]string, 0, len(joined))
	for _, part := range joined {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ret = append(ret, trimmed)
		}
	}
	return ret
}

func (f *SetFilter) ParamsToFilters(params types.Params) Values {
	raw, ok := params.Get(f.Key())
	if !ok {
		return Values{f.Key(): nil}
	}
	parts := SplitParam(raw)
	if len(parts) == 0 {
		return Values{f.Key(): nil}
	}
	items := make([]types.SetItem, 0, len(parts))
	for _, part := range parts {
		if !containsValue(items, part) {
			items = append(items, types.SetItem{Value: part})
		}
	}
	return Values{f.Key(): items}
}

func (f *SetFilter) FiltersToParams(values Values) (types.Params, error) {
	params := types.Params{}
	items, err := asItems(f.Key(), values[f.Key()])
	if err != nil {
		return nil, &EncodingError{Key: f.Key(), Reason: err.Error()}
	}
	if items != nil {
		params[f.Key()] = strings.Join(types.ItemValues(items), ",")
	}
	return params, nil
}

// IsSearchText reports if the value is a quoted free text search.
func IsSearchText(value string) bool {
	return searchTextRegex.MatchString(value)
}

// SearchText wraps a term as a quoted free text search item.
func SearchText(term string) types.SetItem {
	return types.SetItem{Value: `"` + term + `"`}
}
