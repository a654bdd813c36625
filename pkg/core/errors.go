package core

import (
	"fmt"
)

// Error represents a structured orchestrator error.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Param   string    `json:"param,omitempty"`
	Code    string    `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// Contract errors: programmer or model mistakes. Surfaced immediately,
	// never retried; the session continues.
	ErrUnknownTool     ErrorType = "unknown_tool_error"
	ErrInvalidArgument ErrorType = "invalid_argument_error"
	ErrArgumentFormat  ErrorType = "argument_format_error"
	ErrDuplicateTool   ErrorType = "duplicate_tool_error"

	// Backend errors: failures of the external email/calendar service or
	// its transport. Converted to ToolResult data at the dispatcher
	// boundary, never allowed to cross into the session controller.
	ErrBackend ErrorType = "backend_error"

	// Pipeline errors: connection-level failures of the audio pipeline.
	// The only fatal category; the session transitions to CLOSED.
	ErrPipeline ErrorType = "pipeline_error"
)

// NewUnknownToolError creates an unknown tool error.
func NewUnknownToolError(name string) *Error {
	return &Error{
		Type:    ErrUnknownTool,
		Message: fmt.Sprintf("tool %q is not registered", name),
		Param:   "tool_name",
	}
}

// NewInvalidArgumentError creates an invalid argument error naming the
// offending parameter.
func NewInvalidArgumentError(message, param string) *Error {
	return &Error{
		Type:    ErrInvalidArgument,
		Message: message,
		Param:   param,
	}
}

// NewArgumentFormatError creates a format constraint violation with a
// corrective message the model can act on.
func NewArgumentFormatError(message, param string) *Error {
	return &Error{
		Type:    ErrArgumentFormat,
		Message: message,
		Param:   param,
	}
}

// NewDuplicateToolError creates a duplicate registration error.
func NewDuplicateToolError(name string) *Error {
	return &Error{
		Type:    ErrDuplicateTool,
		Message: fmt.Sprintf("tool %q is already registered", name),
		Param:   "tool_name",
	}
}

// NewBackendError creates a backend error with a service-derived code.
func NewBackendError(code, message string) *Error {
	return &Error{
		Type:    ErrBackend,
		Message: message,
		Code:    code,
	}
}

// NewPipelineError creates a fatal pipeline connection error.
func NewPipelineError(message string) *Error {
	return &Error{
		Type:    ErrPipeline,
		Message: message,
	}
}

// IsContract reports whether the error is a contract violation rather than
// an external failure.
func (e *Error) IsContract() bool {
	switch e.Type {
	case ErrUnknownTool, ErrInvalidArgument, ErrArgumentFormat, ErrDuplicateTool:
		return true
	default:
		return false
	}
}
