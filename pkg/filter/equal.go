package filter

import (
	"slices"

	"github.com/matst80/slask-filters/pkg/types"
)

func textEqual(a, b *types.Text) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// itemsEqual compares set values as sequences, labels included.
func itemsEqual(a, b []types.SetItem) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}

// sameKeySet compares partition selections as unordered sets.
func sameKeySet(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	sa := slices.Compact(slices.Sorted(slices.Values(a)))
	sb := slices.Compact(slices.Sorted(slices.Values(b)))
	return slices.Equal(sa, sb)
}
