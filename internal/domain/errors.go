package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies errors that cross a component boundary.
type ErrorKind string

const (
	// KindExecutableNotFound means every executable resolution strategy failed.
	KindExecutableNotFound ErrorKind = "executable_not_found"
	// KindDataRootNotFound means the user data root could not be determined.
	KindDataRootNotFound ErrorKind = "data_root_not_found"
	// KindLaunchFailed means no launch strategy could create a process.
	KindLaunchFailed ErrorKind = "launch_failed"
	// KindAlreadyRunning means another launcher holds the instance lock.
	KindAlreadyRunning ErrorKind = "already_running"
)

// Error is a classified launcher error.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a classified error.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewExecutableNotFoundError reports the executable missing at every tried path.
func NewExecutableNotFoundError(exe string, tried []string) *Error {
	return NewError(KindExecutableNotFound,
		fmt.Sprintf("%s not found (tried: %s), please make sure Winter War and "+
			"Rising Storm 2: Vietnam are installed on the same drive", exe, strings.Join(tried, ", ")),
		nil)
}

// KindOf returns the kind of a classified error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsExecutableNotFound checks for KindExecutableNotFound.
func IsExecutableNotFound(err error) bool {
	return KindOf(err) == KindExecutableNotFound
}

// IsDataRootNotFound checks for KindDataRootNotFound.
func IsDataRootNotFound(err error) bool {
	return KindOf(err) == KindDataRootNotFound
}
