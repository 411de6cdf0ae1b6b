package dispatch

import "fmt"

// NoHandlerError is raised when no handler owns a directive kind.
type NoHandlerError struct {
	Kind string
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for directive kind %s", e.Kind)
}

// NewNoHandlerError creates a new NoHandlerError.
func NewNoHandlerError(kind string) *NoHandlerError {
	return &NoHandlerError{Kind: kind}
}

// HandlerAlreadyRegisteredError is raised when registering a duplicate handler.
type HandlerAlreadyRegisteredError struct {
	Kind string
}

func (e *HandlerAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("handler already registered for directive kind %s", e.Kind)
}

// NewHandlerAlreadyRegisteredError creates a new HandlerAlreadyRegisteredError.
func NewHandlerAlreadyRegisteredError(kind string) *HandlerAlreadyRegisteredError {
	return &HandlerAlreadyRegisteredError{Kind: kind}
}
