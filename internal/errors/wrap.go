package errors

import (
	"errors"
	"fmt"
)

// ErrorWrapper attaches module and operation context plus a chat-safe
// message to store or network failures.
type ErrorWrapper struct {
	module    string
	operation string
}

// NewWrapper creates a wrapper for one module operation.
func NewWrapper(module, operation string) *ErrorWrapper {
	return &ErrorWrapper{module: module, operation: operation}
}

// Wrap wraps err with the user-facing message. Returns nil if err is nil.
func (w *ErrorWrapper) Wrap(err error, userMessage string) error {
	if err == nil {
		return nil
	}
	return &WrappedError{
		Module:      w.module,
		Operation:   w.operation,
		Cause:       err,
		UserMessage: userMessage,
	}
}

// WrappedError keeps the internal cause next to the text shown to the user.
type WrappedError struct {
	Module      string // e.g. "hostel"
	Operation   string // e.g. "get_hostel_fees"
	Cause       error
	UserMessage string
}

func (e *WrappedError) Error() string {
	return fmt.Sprintf("[%s:%s] %s: %v", e.Module, e.Operation, e.UserMessage, e.Cause)
}

func (e *WrappedError) Unwrap() error { return e.Cause }

// GetUserMessage returns the user-facing message of the first WrappedError
// in err's chain, or err.Error() when there is none.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	var wrapped *WrappedError
	if errors.As(err, &wrapped) {
		return wrapped.UserMessage
	}
	return err.Error()
}
