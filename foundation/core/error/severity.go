// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to prioritize errors in logs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-02
// Modified: 2026-10-02

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks caller mistakes such as a missing key or a wrong accessor
	SeverityLow Severity = iota

	// SeverityMedium is the default
	SeverityMedium

	// SeverityHigh marks storage and initialization failures
	SeverityHigh

	// SeverityCritical marks corrupt data
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeDataCorruption:
		return SeverityCritical
	case CodeDatabaseError, CodeServiceInitialization, CodeServiceUnavailable, CodeAliasLoop:
		return SeverityHigh
	case CodeNotFound, CodeInvalidInput, CodeResourceNotFound, CodeResourceMissing,
		CodeTypeMismatch, CodeIndexOutOfRange, CodeInvalidFormat:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
