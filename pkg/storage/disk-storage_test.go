package storage

import (
	"testing"

	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/types"
)

func TestManifestRoundTrip(t *testing.T) {
	d := NewDiskStorage("countries", t.TempDir())
	manifest := &filter.Manifest{
		Order: []string{"q", "country"},
		Filters: map[string]filter.Spec{
			"q":       {Key: "q", Type: filter.TextType},
			"country": {Key: "country", Type: filter.SetType, AllowSearchText: true},
		},
	}
	if err := d.SaveManifest(manifest); err != nil {
		t.Fatalf("Failed to save manifest: %v", err)
	}
	loaded := filter.Manifest{}
	if err := d.LoadManifest(&loaded); err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}
	if loaded.Name != "countries" {
		t.Errorf("Expected name from dashboard, got %q", loaded.Name)
	}
	if len(loaded.Order) != 2 || !loaded.Filters["country"].AllowSearchText {
		t.Errorf("Unexpected manifest %+v", loaded)
	}
}

func TestLoadCandidatesMissingFile(t *testing.T) {
	d := NewDiskStorage("empty", t.TempDir())
	candidates := map[string][]types.Candidate{}
	if err := d.LoadCandidates(&candidates); err != nil {
		t.Errorf("Expected missing file to be ignored, got %v", err)
	}
}

func TestCandidatesRoundTrip(t *testing.T) {
	d := NewDiskStorage("countries", t.TempDir())
	sort := 3
	err := d.SaveCandidates(map[string][]types.Candidate{
		"country": {{Value: "se", Label: "Sweden", Sort: &sort}},
	})
	if err != nil {
		t.Fatalf("Failed to save candidates: %v", err)
	}
	candidates := map[string][]types.Candidate{}
	if err = d.LoadCandidates(&candidates); err != nil {
		t.Fatalf("Failed to load candidates: %v", err)
	}
	got := candidates["country"]
	if len(got) != 1 || got[0].Label != "Sweden" || got[0].Sort == nil || *got[0].Sort != 3 {
		t.Errorf("Unexpected candidates %+v", got)
	}
}
