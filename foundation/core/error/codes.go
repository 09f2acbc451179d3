// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across resb. Resource codes
//              classify resolution failures; the generic codes cover
//              configuration, storage and transport concerns.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-02
// Modified: 2026-10-09
//
// Change History:
// - 2026-10-02 v0.1.0: Initial code table
// - 2026-10-09 v0.2.0: Resource resolution codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Resource resolution
	CodeResourceMissing  Code = "RESOURCE_MISSING"
	CodeResourceNotFound Code = "RESOURCE_NOT_FOUND"
	CodeTypeMismatch     Code = "TYPE_MISMATCH"
	CodeIndexOutOfRange  Code = "INDEX_OUT_OF_RANGE"
	CodeAliasLoop        Code = "ALIAS_LOOP"

	// Storage and data
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeDataCorruption Code = "DATA_CORRUPTION"
	CodeInvalidFormat  Code = "INVALID_FORMAT"

	// Service
	CodeServiceUnavailable    Code = "SERVICE_UNAVAILABLE"
	CodeServiceInitialization Code = "SERVICE_INITIALIZATION"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeResourceMissing, CodeResourceNotFound, CodeTypeMismatch, CodeIndexOutOfRange, CodeAliasLoop,
		CodeDatabaseError, CodeDataCorruption, CodeInvalidFormat,
		CodeServiceUnavailable, CodeServiceInitialization,
		CodeConfigError, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeResourceMissing, CodeResourceNotFound, CodeTypeMismatch, CodeIndexOutOfRange, CodeAliasLoop:
		return "resource"
	case CodeDatabaseError, CodeDataCorruption, CodeInvalidFormat:
		return "storage"
	case CodeServiceUnavailable, CodeServiceInitialization:
		return "service"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeResourceNotFound, CodeResourceMissing:
		return 404
	case CodeInvalidInput, CodeTypeMismatch, CodeIndexOutOfRange:
		return 400
	case CodeServiceUnavailable, CodeDatabaseError:
		return 503
	default:
		return 500
	}
}
