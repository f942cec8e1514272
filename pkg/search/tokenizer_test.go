package search

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	res := Normalize("Öôüûÿçñé Ångström")
	if res != "oouuycne angstrom" {
		t.Errorf("Expected 'oouuycne angstrom' but got %s", res)
	}
}

func TestNormalizeCommonIssues(t *testing.T) {
	res := Normalize("Straße Ærø Łódź")
	if res != "strasse aero lodz" {
		t.Errorf("Expected 'strasse aero lodz' but got %s", res)
	}
}

func TestTokenize(t *testing.T) {
	res := Tokenize("  Hello   Wörld\tagain ")
	if len(res) != 3 {
		t.Fatalf("Expected 3 tokens but got %d", len(res))
	}
	if res[0] != "hello" || res[1] != "world" || res[2] != "again" {
		t.Errorf("Unexpected tokens %v", res)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if res := Tokenize("   "); len(res) != 0 {
		t.Errorf("Expected no tokens but got %v", res)
	}
}
