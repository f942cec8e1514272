package filter

import (
	"github.com/matst80/slask-filters/pkg/types"
)

// TextFilter holds nil or a non empty string.
type TextFilter struct {
	baseFilter
	value *types.Text
}

func NewTextFilter(spec Spec, notify ChangeFunc) (Filter, error) {
	if spec.Key == "" {
		return nil, &ConfigError{Reason: "text filter without key"}
	}
	return &TextFilter{baseFilter: newBaseFilter(spec, notify)}, nil
}

func asText(key string, value Value) (*types.Text, error) {
	var text types.Text
	switch v := value.(type) {
	case nil:
		return nil, nil
	case types.Text:
		text = v
	case string:
		text = types.Text(v)
	case *types.Text:
		if v == nil {
			return nil, nil
		}
		text = *v
	default:
		return nil, valueTypeError(key, value)
	}
	if text == "" {
		return nil, nil
	}
	return &text, nil
}

func (f *TextFilter) Value() Value {
	if f.value == nil {
		return nil
	}
	return *f.value
}

func (f *TextFilter) Set(value Value) error {
	text, err := asText(f.Key(), value)
	if err != nil {
		return err
	}
	if f.defined && textEqual(text, f.value) {
		return nil
	}
	f.value = text
	f.upstreamSet(f.Value(), "update")
	return nil
}

func (f *TextFilter) ParamsToFilters(params types.Params) Values {
	if raw, ok := params.Get(f.Key()); ok && raw != "" {
		return Values{f.Key(): types.Text(raw)}
	}
	return Values{f.Key(): nil}
}

func (f *TextFilter) FiltersToParams(values Values) (types.Params, error) {
	params := types.Params{}
	text, err := asText(f.Key(), values[f.Key()])
	if err != nil {
		return nil, &EncodingError{Key: f.Key(), Reason: err.Error()}
	}
	if text != nil {
		params[f.Key()] = string(*text)
	}
	return params, nil
}
