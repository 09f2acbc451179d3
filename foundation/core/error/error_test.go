package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestCodeThroughWrapChains(t *testing.T) {
	base := New("can't find resource").WithCode(CodeResourceNotFound)

	tests := []struct {
		name string
		err  error
	}{
		{"direct", base},
		{"wrapped", Wrap(base, "open units")},
		{"fmt wrapped", fmt.Errorf("lookup: %w", base)},
		{"mixed", Wrap(fmt.Errorf("lookup: %w", base), "server")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !HasCode(tt.err, CodeResourceNotFound) {
				t.Errorf("HasCode() = false, want true")
			}
			if got := GetCode(tt.err); got != CodeResourceNotFound {
				t.Errorf("GetCode() = %v, want %v", got, CodeResourceNotFound)
			}
			if !errors.Is(tt.err, base) {
				t.Errorf("errors.Is() = false, want true")
			}
		})
	}
}

func TestHasCodeFindsInnerCode(t *testing.T) {
	inner := New("bad header").WithCode(CodeInvalidFormat)
	outer := Wrap(inner, "decode").WithCode(CodeDataCorruption)

	if !HasCode(outer, CodeInvalidFormat) || !HasCode(outer, CodeDataCorruption) {
		t.Error("HasCode() should see both the outer and the inner code")
	}
	if GetCode(outer) != CodeDataCorruption {
		t.Errorf("GetCode() = %v, want outermost %v", GetCode(outer), CodeDataCorruption)
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("HasCode() = true for a plain error")
	}
	if GetCode(nil) != CodeUnknown {
		t.Errorf("GetCode(nil) = %v, want %v", GetCode(nil), CodeUnknown)
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeDataCorruption, SeverityCritical},
		{CodeAliasLoop, SeverityHigh},
		{CodeTypeMismatch, SeverityLow},
		{CodeInternal, SeverityMedium},
	}
	for _, tt := range tests {
		if got := New("x").WithCode(tt.code).Severity(); got != tt.want {
			t.Errorf("WithCode(%v).Severity() = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestWrapInheritsDetails(t *testing.T) {
	inner := Newf("index %d out of range", 5).
		WithCode(CodeIndexOutOfRange).
		WithDetail("index", 5)
	outer := Wrap(inner, "get")

	if v, ok := outer.Detail("index"); !ok || v != 5 {
		t.Errorf("Detail(index) = %v, %v, want 5, true", v, ok)
	}
	if outer.Error() != "get: index 5 out of range" {
		t.Errorf("Error() = %q", outer.Error())
	}
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) != nil")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("alias loop").WithCode(CodeAliasLoop).WithOperation("resource.Get")

	raw, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("Marshal() error = %v", jerr)
	}
	var got map[string]interface{}
	if jerr := json.Unmarshal(raw, &got); jerr != nil {
		t.Fatalf("Unmarshal() error = %v", jerr)
	}
	if got["code"] != string(CodeAliasLoop) || got["operation"] != "resource.Get" {
		t.Errorf("MarshalJSON() = %s", raw)
	}
}
