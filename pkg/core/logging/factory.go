// ============================================================================
// resb - locale-aware resource bundles
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating configured loggers
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/msto63/resb/foundation/core/log"
	"github.com/msto63/resb/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json" or "text" (default: text)
	Format string

	// Output defaults to stderr so command output on stdout stays clean
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// FromConfig derives the logger configuration from the application config
func FromConfig(cfg *config.Config, serviceName string) LoggerConfig {
	lc := DefaultLoggerConfig(serviceName)
	if cfg == nil {
		return lc
	}
	lc.Level = cfg.General.LogLevel
	lc.Format = cfg.General.LogFormat
	return lc
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *log.Logger {
	level := parseLevel(cfg.Level)

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}
	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	format, err := log.ParseFormat(cfg.Format)
	if err != nil {
		format = log.FormatText
	}

	return log.NewWithConfig(log.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(serviceName string) *log.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// parseLevel converts a string level, falling back to info
func parseLevel(level string) log.Level {
	l, err := log.ParseLevel(level)
	if err != nil {
		return log.LevelInfo
	}
	return l
}
