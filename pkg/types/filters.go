package types

import "slices"

// Text is the value of a free text filter.
type Text string

type SetItem struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// DisplayText is the label when present, otherwise the value.
func (s SetItem) DisplayText() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Value
}

type PartitionItem struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Candidate is an autocomplete suggestion. Sort is an optional secondary
// ordering key used when scores tie.
type Candidate struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Sort  *int   `json:"sort,omitempty"`
}

func (c Candidate) DisplayText() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Value
}

func (c Candidate) AsItem() SetItem {
	return SetItem{Value: c.Value, Label: c.Label}
}

func CloneItems(items []SetItem) []SetItem {
	if items == nil {
		return nil
	}
	return slices.Clone(items)
}

func ItemValues(items []SetItem) []string {
	ret := make([]string, 0, len(items))
	for _, item := range items {
		ret = append(ret, item.Value)
	}
	return ret
}
