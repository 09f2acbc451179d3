package cmd

import (
	"bytes"
	"strings"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestRenderValue(t *testing.T) {
	v, err := structpb.NewValue(map[string]interface{}{
		"Meter":  "meter",
		"Prefix": map[string]interface{}{"kilo": 1000},
		"Digits": []interface{}{1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	renderValue(&buf, v, 0)
	out := buf.String()

	for _, want := range []string{"Meter: meter", "Prefix:\n  kilo: 1000", "Digits:\n  [0] 1\n  [1] 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderValue() missing %q in\n%s", want, out)
		}
	}
}

func TestIsBundleFile(t *testing.T) {
	tests := map[string]bool{
		"units/fr.res":   true,
		"units/fr.TOML":  true,
		"units/fr.yml":   true,
		"units/notes.md": false,
		"units/fr":       false,
	}
	for name, want := range tests {
		if got := isBundleFile(name); got != want {
			t.Errorf("isBundleFile(%q) = %v, want %v", name, got, want)
		}
	}
}
