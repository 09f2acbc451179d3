package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	resberror "github.com/msto63/resb/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "resb" {
		t.Errorf("General.Name = %v, want resb", cfg.General.Name)
	}
	if cfg.General.DefaultLocale != "root" {
		t.Errorf("General.DefaultLocale = %v, want root", cfg.General.DefaultLocale)
	}
	if cfg.Data.Dir != "./bundles" {
		t.Errorf("Data.Dir = %v, want ./bundles", cfg.Data.Dir)
	}
	if cfg.Server.Port != 9300 {
		t.Errorf("Server.Port = %v, want 9300", cfg.Server.Port)
	}
	if cfg.Watch.Debounce.Duration != 250*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 250ms", cfg.Watch.Debounce.Duration)
	}
	if got := cfg.ServerAddress(); got != "0.0.0.0:9300" {
		t.Errorf("ServerAddress() = %v, want 0.0.0.0:9300", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RESB_TEST_DATA", "/srv/bundles")

	tomlPath := filepath.Join(dir, "resb.toml")
	tomlContent := `
[general]
name = "test-resb"
log_level = "debug"
default_locale = "fr_CA"

[data]
dir = "${RESB_TEST_DATA}"
compressed = true

[server]
port = 9400
keepalive_time = "1m"

[watch]
enabled = true
debounce = "1s"
`
	if err := os.WriteFile(tomlPath, []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	yamlPath := filepath.Join(dir, "resb.yaml")
	yamlContent := `
general:
  name: test-resb
  log_level: debug
  default_locale: fr_CA
data:
  dir: ${RESB_TEST_DATA}
  compressed: true
server:
  port: 9400
  keepalive_time: 1m
watch:
  enabled: true
  debounce: 1s
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{tomlPath, yamlPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.General.Name != "test-resb" {
				t.Errorf("General.Name = %v, want test-resb", cfg.General.Name)
			}
			if cfg.General.DefaultLocale != "fr_CA" {
				t.Errorf("General.DefaultLocale = %v, want fr_CA", cfg.General.DefaultLocale)
			}
			if cfg.Data.Dir != "/srv/bundles" {
				t.Errorf("Data.Dir = %v, want /srv/bundles", cfg.Data.Dir)
			}
			if !cfg.Data.Compressed {
				t.Error("Data.Compressed = false, want true")
			}
			if cfg.Server.Port != 9400 {
				t.Errorf("Server.Port = %v, want 9400", cfg.Server.Port)
			}
			if cfg.Server.KeepaliveTime.Duration != time.Minute {
				t.Errorf("Server.KeepaliveTime = %v, want 1m", cfg.Server.KeepaliveTime.Duration)
			}
			if !cfg.Watch.Enabled || cfg.Watch.Debounce.Duration != time.Second {
				t.Errorf("Watch = %+v, want enabled with 1s debounce", cfg.Watch)
			}
			// Defaults still apply to unset fields
			if cfg.Server.Host != "0.0.0.0" {
				t.Errorf("Server.Host = %v, want 0.0.0.0", cfg.Server.Host)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[general\nname ="), 0644); err != nil {
		t.Fatal(err)
	}
	port := filepath.Join(dir, "port.toml")
	if err := os.WriteFile(port, []byte("[server]\nport = 70000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code resberror.Code
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), resberror.CodeConfigError},
		{"parse error", bad, resberror.CodeInvalidConfig},
		{"port out of range", port, resberror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !resberror.HasCode(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(path, []byte("[general]\nname = \"from-env\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.Name != "from-env" {
		t.Errorf("General.Name = %v, want from-env", cfg.General.Name)
	}
}
