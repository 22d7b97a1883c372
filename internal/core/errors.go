package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
// These can be used with errors.Is() for error type checking.
var (
	// ErrNoInventory indicates the extractor found no open source usage
	ErrNoInventory = errors.New("no open source information found")

	// ErrPolicyRejection indicates the organization policy check rejected at least one library
	ErrPolicyRejection = errors.New("open source rejected by organization policies")
)

// UnsupportedBuildKindError is returned when the publisher is attached to a
// build kind it has no extractor for. Unlike a missing token or an empty
// inventory, this indicates a misconfiguration and always fails the build.
type UnsupportedBuildKindError struct {
	Kind string
}

func (e *UnsupportedBuildKindError) Error() string {
	return fmt.Sprintf("unrecognized build kind %q", e.Kind)
}

// ServiceError is a protocol-level error returned by the compliance service
// (the HTTP exchange succeeded but the service reported a failure).
type ServiceError struct {
	Operation string // "checkPolicyCompliance" or "update"
	Code      int
	Message   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("compliance service %s failed: %s (status %d)", e.Operation, e.Message, e.Code)
}

// IsServiceError checks if err is a protocol-level service error.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// IsUnsupportedBuildKind checks if err indicates an unrecognized build kind.
func IsUnsupportedBuildKind(err error) bool {
	var ue *UnsupportedBuildKindError
	return errors.As(err, &ue)
}
