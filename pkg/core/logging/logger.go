// ============================================================================
// resb - locale-aware resource bundles
// ============================================================================
//
// Package:     logging
// Description: Key/value logging facade over the Foundation logger
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package logging

import (
	"github.com/msto63/resb/foundation/core/log"
)

// Logger wraps the Foundation logger with key/value call sites
type Logger struct {
	*log.Logger
	name string
}

// New creates a key/value logger with the default configuration
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing Foundation logger
func Wrap(l *log.Logger) *Logger {
	return &Logger{Logger: l, name: l.Name()}
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level log.Level) *Logger {
	return &Logger{
		Logger: l.Logger.WithLevel(level),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to log.Fields
func toFields(keysAndValues ...interface{}) log.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(log.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
