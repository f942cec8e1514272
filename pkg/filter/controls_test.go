package filter

import (
	"errors"
	"testing"

	"github.com/matst80/slask-filters/pkg/types"
)

func testManifest() *Manifest {
	return &Manifest{
		Name:  "test",
		Order: []string{"q", "", "country", "status"},
		Filters: map[string]Spec{
			"q":       {Type: TextType},
			"country": countrySpec(),
			"status":  partitionSpec(),
		},
	}
}

func TestControlsMissingManifestEntry(t *testing.T) {
	m := testManifest()
	m.Order = append(m.Order, "missing")
	_, err := NewControls(nil, m, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Key != "missing" {
		t.Errorf("Expected ConfigError for missing key, got %v", err)
	}
}

func TestControlsOrderSkipsSeparators(t *testing.T) {
	c, err := NewControls(nil, testManifest(), nil)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	filters := c.Filters()
	if len(filters) != 3 || filters[0].Key() != "q" || filters[2].Key() != "status" {
		t.Errorf("Unexpected filters %v", filters)
	}
	if _, err = c.Filter("nope"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("Expected ErrUnknownFilter, got %v", err)
	}
}

func TestControlsParamsRoundTrip(t *testing.T) {
	rec := &recorder{}
	c, err := NewControls(nil, testManifest(), rec.notify)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	in := types.Params{"q": "acme", "country": "Palestine, State of,se", "status": "all", "page": "2"}
	if err = c.ApplyParams(in); err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(rec.changes) != 3 {
		t.Errorf("Expected 3 changes, got %d", len(rec.changes))
	}
	out, err := c.Params()
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	delete(in, "page")
	if out.Encode() != in.Encode() {
		t.Errorf("Expected %s, got %s", in.Encode(), out.Encode())
	}

	if err = c.ApplyParams(in); err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if len(rec.changes) != 3 {
		t.Errorf("Expected re-applying the same params to be silent, got %d changes", len(rec.changes))
	}
}

func TestControlsEncodingAbortsOnBrokenPartition(t *testing.T) {
	c, err := NewControls(nil, testManifest(), nil)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	_ = c.ApplyParams(types.Params{})
	values := c.Values()
	values["status"] = []string{}
	_, err = c.FiltersToParams(values)
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Errorf("Expected EncodingError, got %v", err)
	}
}

func TestControlsEnable(t *testing.T) {
	c, _ := NewControls(nil, testManifest(), nil)
	c.Enable(false)
	for _, f := range c.Filters() {
		if f.Enabled() {
			t.Errorf("Expected %s to be disabled", f.Key())
		}
	}
}

func TestDecodeValue(t *testing.T) {
	c, _ := NewControls(nil, testManifest(), nil)
	country, _ := c.Filter("country")
	v, err := DecodeValue(country, []byte(`[{"value":"se","label":"Sweden"}]`))
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	items := v.([]types.SetItem)
	if len(items) != 1 || items[0].Label != "Sweden" {
		t.Errorf("Unexpected items %v", items)
	}
	status, _ := c.Filter("status")
	if _, err = DecodeValue(status, []byte(`"a"`)); err == nil {
		t.Errorf("Expected error decoding string into partition")
	}
	if v, _ = DecodeValue(status, []byte(`null`)); v != nil {
		t.Errorf("Expected null to decode to nil, got %v", v)
	}
}
