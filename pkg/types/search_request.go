package types

import (
	"maps"
	"net/url"
)

// Params is the flat query parameter map that mirrors the address bar.
// A missing key means the filter contributes nothing to the query.
type Params map[string]string

// ParamsFromQuery flattens url.Values, keeping the last supplied value of
// every key.
func ParamsFromQuery(query url.Values) Params {
	ret := make(Params, len(query))
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		ret[key] = values[len(values)-1]
	}
	return ret
}

func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Merge copies every entry of other into p, overwriting existing keys.
func (p Params) Merge(other Params) {
	maps.Copy(p, other)
}

func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

func (p Params) Values() url.Values {
	ret := make(url.Values, len(p))
	for key, value := range p {
		ret.Set(key, value)
	}
	return ret
}

// Encode renders a query string with keys in sorted order so the same state
// always produces the same URL.
func (p Params) Encode() string {
	return p.Values().Encode()
}
