package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	resberror "github.com/msto63/resb/foundation/core/error"
)

// EnvConfigPath names the environment variable pointing at the config file
const EnvConfigPath = "RESB_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Data    DataConfig    `toml:"data" yaml:"data"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name          string `toml:"name" yaml:"name"`
	Environment   string `toml:"environment" yaml:"environment"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFormat     string `toml:"log_format" yaml:"log_format"`
	DefaultLocale string `toml:"default_locale" yaml:"default_locale"`
}

// DataConfig says where bundle files come from
type DataConfig struct {
	// Dir is the bundle directory tree
	Dir string `toml:"dir" yaml:"dir"`
	// DBPath is an optional SQLite bundle store consulted after Dir
	DBPath string `toml:"db_path" yaml:"db_path"`
	// Compressed makes pack write .xz files
	Compressed    bool `toml:"compressed" yaml:"compressed"`
	MaxAliasDepth int  `toml:"max_alias_depth" yaml:"max_alias_depth"`
}

// ServerConfig holds gRPC server settings
type ServerConfig struct {
	Host             string    `toml:"host" yaml:"host"`
	Port             int       `toml:"port" yaml:"port"`
	EnableReflection bool      `toml:"enable_reflection" yaml:"enable_reflection"`
	KeepaliveTime    Duration  `toml:"keepalive_time" yaml:"keepalive_time"`
	KeepaliveTimeout Duration  `toml:"keepalive_timeout" yaml:"keepalive_timeout"`
	MaxRecvMsgSize   int       `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
	// CacheTTL bounds how long Get responses are served from memory; "0s" disables caching
	CacheTTL         *Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// WatchConfig controls reloading when bundle files change
type WatchConfig struct {
	Enabled  bool     `toml:"enabled" yaml:"enabled"`
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, resberror.Newf("config file not found: %s", path).WithCode(resberror.CodeConfigError)
	}
	if err != nil {
		return nil, resberror.Wrap(err, "failed to read config").WithCode(resberror.CodeConfigError)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, resberror.Wrap(err, "failed to parse config").
			WithCode(resberror.CodeInvalidConfig).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the RESB_CONFIG environment variable or
// the default locations. Without any file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		defaultPaths := []string{
			"./configs/resb.toml",
			"./resb.toml",
			"./resb.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/resb/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "resb"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.General.DefaultLocale == "" {
		c.General.DefaultLocale = "root"
	}

	// Data
	if c.Data.Dir == "" {
		c.Data.Dir = "./bundles"
	}
	if c.Data.MaxAliasDepth == 0 {
		c.Data.MaxAliasDepth = 32
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9300
	}
	if c.Server.KeepaliveTime.Duration == 0 {
		c.Server.KeepaliveTime.Duration = 30 * time.Second
	}
	if c.Server.KeepaliveTimeout.Duration == 0 {
		c.Server.KeepaliveTimeout.Duration = 10 * time.Second
	}
	if c.Server.MaxRecvMsgSize == 0 {
		c.Server.MaxRecvMsgSize = 4 * 1024 * 1024
	}
	if c.Server.CacheTTL == nil {
		c.Server.CacheTTL = &Duration{Duration: time.Minute}
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 250 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Data.Dir = os.ExpandEnv(c.Data.Dir)
	c.Data.DBPath = os.ExpandEnv(c.Data.DBPath)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return resberror.Newf("server.port %d out of range", c.Server.Port).WithCode(resberror.CodeInvalidConfig)
	}
	if c.Data.MaxAliasDepth < 0 {
		return resberror.New("data.max_alias_depth must not be negative").WithCode(resberror.CodeInvalidConfig)
	}
	return nil
}

// ServerAddress returns the host:port the server listens on
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
