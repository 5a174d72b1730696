package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccessDenied         = errors.New("access to path is denied")
	ErrNotFound             = errors.New("path does not exist")
	ErrUnsupportedExtension = errors.New("extension not allowed")
	ErrPromptInjection      = errors.New("possible prompt injection detected")
)

// SecurityError signals a policy violation that must halt the enclosing
// operation: traversal attempts, symlink access, or an unconfigured
// allow-list. It is deliberately distinct from a plain "not allowed"
// denial, which is reported as a false result without an error.
type SecurityError struct {
	Path   string
	Reason string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security violation for path %q: %s", e.Path, e.Reason)
}

// IsSecurityError reports whether err is (or wraps) a SecurityError.
func IsSecurityError(err error) bool {
	var se *SecurityError
	return errors.As(err, &se)
}
