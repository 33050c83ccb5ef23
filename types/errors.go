package types

import (
	"errors"
	"fmt"
)

// Error codes surfaced through the tool-call layer. Every store failure maps
// to exactly one of these.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeCycleDetected   = "CYCLE_DETECTED"
	CodeBlocked         = "BLOCKED"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeInternal        = "INTERNAL"
)

// MCPError provides structured error information for MCP responses.
type MCPError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMCPError creates a new structured MCP error.
func NewMCPError(code string, message string, details map[string]interface{}) *MCPError {
	return &MCPError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NotFound builds a NOT_FOUND error for a missing entity.
func NotFound(entity, id string) *MCPError {
	return NewMCPError(CodeNotFound, fmt.Sprintf("%s not found: %s", entity, id), map[string]interface{}{
		"entity": entity,
		"id":     id,
	})
}

// InvalidArgument builds an INVALID_ARGUMENT error.
func InvalidArgument(format string, args ...interface{}) *MCPError {
	return NewMCPError(CodeInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// AlreadyExists builds an ALREADY_EXISTS error.
func AlreadyExists(format string, args ...interface{}) *MCPError {
	return NewMCPError(CodeAlreadyExists, fmt.Sprintf(format, args...), nil)
}

// CodeOf returns the error code carried by err, or CodeInternal for plain
// errors. A nil err returns the empty string.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var me *MCPError
	if errors.As(err, &me) {
		return me.Code
	}
	return CodeInternal
}
