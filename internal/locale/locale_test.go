package locale

import (
	"reflect"
	"testing"
)

func TestChain(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		rootID string
		want   []string
	}{
		{"region", "fr_CA", Root, []string{"fr_CA", "fr", "root"}},
		{"script and region", "zh_Hant_TW", Root, []string{"zh_Hant_TW", "zh_Hant", "zh", "root"}},
		{"language only", "de", Root, []string{"de", "root"}},
		{"root itself", "root", Root, []string{"root"}},
		{"empty means root", "", Root, []string{"root"}},
		{"dotted family", "fr_CA", "", []string{"fr_CA", "fr", ""}},
		{"dotted root", "", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Chain(tt.id, tt.rootID); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Chain(%q, %q) = %v, want %v", tt.id, tt.rootID, got, tt.want)
			}
		})
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fr-CA", "fr_CA"},
		{"fr_ca", "fr_CA"},
		{"EN", "en"},
		{"zh-hant-tw", "zh_Hant_TW"},
		{"root", "root"},
		{"ROOT", "root"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRootFor(t *testing.T) {
	if got := RootFor("units"); got != Root {
		t.Errorf("RootFor(units) = %q, want %q", got, Root)
	}
	if got := RootFor("com.example.Names"); got != "" {
		t.Errorf("RootFor(com.example.Names) = %q, want empty", got)
	}
}
