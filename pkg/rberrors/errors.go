// Package rberrors holds the root error kinds shared by every recycle-bin package.
// Package level sentinels wrap one of these roots, so callers can classify any
// failure with errors.Is and map it to a process exit status.
package rberrors

import "errors"

var (
	// ErrInvalidInput indicates bad caller input (missing artifact path, bad expiry expression)
	ErrInvalidInput = errors.New("invalid input")
	// ErrPolicyViolation indicates a forbidden combination of options or source state
	ErrPolicyViolation = errors.New("policy violation")
	// ErrPrimitiveFailure indicates an underlying git command returned a non-success status
	ErrPrimitiveFailure = errors.New("git primitive failed")
)

const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitInvalidInput     = 2
	ExitPolicyViolation  = 3
	ExitPrimitiveFailure = 4
)

// ExitCode maps err to a distinct process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrPolicyViolation):
		return ExitPolicyViolation
	case errors.Is(err, ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, ErrPrimitiveFailure):
		return ExitPrimitiveFailure
	default:
		return ExitFailure
	}
}
