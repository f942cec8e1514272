package filter

import (
	"bytes"

	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
	"github.com/matst80/slask-filters/pkg/types"
)

// DecodeValue parses a JSON value into the value type of the filter. JSON
// null decodes to nil.
func DecodeValue(f Filter, data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var err error
	switch f.(type) {
	case *TextFilter:
		var text string
		if err = jsoncompat.Unmarshal(data, &text); err == nil {
			return types.Text(text), nil
		}
	case *SetFilter:
		var items []types.SetItem
		if err = jsoncompat.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	case *PartitionFilter:
		var keys []string
		if err = jsoncompat.Unmarshal(data, &keys); err == nil {
			return keys, nil
		}
	default:
		var value any
		if err = jsoncompat.Unmarshal(data, &value); err == nil {
			return value, nil
		}
	}
	return nil, &ValueError{Key: f.Key(), Reason: err.Error()}
}
