package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/pkg/core/config"
)

func TestNew(t *testing.T) {
	logger := New("test-service")

	if logger == nil {
		t.Fatal("New() returned nil")
	}
	if logger.name != "test-service" {
		t.Errorf("name = %v, want test-service", logger.name)
	}
}

func TestLogger_WithLevel(t *testing.T) {
	logger := New("test")
	result := logger.WithLevel(log.LevelDebug)

	if result.name != "test" {
		t.Errorf("name should be preserved: got %v", result.name)
	}
	if result.GetLevel() != log.LevelDebug {
		t.Errorf("GetLevel() = %v, want debug", result.GetLevel())
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(NewLogger(LoggerConfig{
		ServiceName: "kv",
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
	}))

	logger.Info("bundle opened", "base_name", "units", "keys", 3, "orphan")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["message"] != "bundle opened" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["base_name"] != "units" {
		t.Errorf("base_name = %v, want units", entry["base_name"])
	}
	if entry["keys"] != float64(3) {
		t.Errorf("keys = %v, want 3", entry["keys"])
	}
	if entry["logger"] != "kv" {
		t.Errorf("logger = %v, want kv", entry["logger"])
	}
	if _, ok := entry["orphan"]; ok {
		t.Error("orphan key without value should be dropped")
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
		wantJSON  bool
	}{
		{"debug text", "debug", "text", true, false},
		{"info json", "info", "json", false, true},
		{"invalid level falls back to info", "loud", "text", false, false},
		{"invalid format falls back to text", "debug", "xml", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LoggerConfig{ServiceName: "t", Level: tt.level, Format: tt.format, Output: &buf})

			logger.Debug("debug line")
			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}

			buf.Reset()
			logger.Info("info line")
			if got := strings.HasPrefix(buf.String(), "{"); got != tt.wantJSON {
				t.Errorf("JSON output = %v, want %v (%q)", got, tt.wantJSON, buf.String())
			}
		})
	}
}

func TestAdditionalOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		ServiceName:       "t",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("twice")
	if !strings.Contains(primary.String(), "twice") || !strings.Contains(extra.String(), "twice") {
		t.Errorf("outputs = %q / %q, want both to contain the entry", primary.String(), extra.String())
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.General.LogLevel = "warn"
	cfg.General.LogFormat = "json"

	lc := FromConfig(cfg, "resb")
	if lc.ServiceName != "resb" || lc.Level != "warn" || lc.Format != "json" {
		t.Errorf("FromConfig() = %+v", lc)
	}

	if lc := FromConfig(nil, "resb"); lc.Level != "info" {
		t.Errorf("FromConfig(nil).Level = %v, want info", lc.Level)
	}
}

func TestToFields(t *testing.T) {
	if fields := toFields(); fields != nil {
		t.Error("toFields() with no args should return nil")
	}

	fields := toFields("key1", "value1", "key2", 42)
	if fields["key1"] != "value1" {
		t.Errorf("fields[key1] = %v, want value1", fields["key1"])
	}
	if fields["key2"] != 42 {
		t.Errorf("fields[key2] = %v, want 42", fields["key2"])
	}

	fields = toFields(123, "value")
	if len(fields) != 0 {
		t.Errorf("Non-string key should be skipped, got %v fields", len(fields))
	}
}
