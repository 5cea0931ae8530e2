// Package businessflow contains the business logic for the analytics service.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	ErrStateRequired       = errors.New("state is required")
	ErrStateNotFound       = errors.New("state not found")
	ErrDistrictNotFound    = errors.New("business district not found")
	ErrSalesRepNotFound    = errors.New("sales representative not found")
	ErrMergeConflict       = errors.New("merge transaction conflict")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrAdminInactive       = errors.New("admin account is inactive")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrCacheNotAvailable   = errors.New("cache not available")
	ErrInvalidBulkItem     = errors.New("invalid bulk staff item")
	ErrUnknownMaterializer = errors.New("unknown materializer mode")
)

// BusinessError wraps a flow failure with a stable code for the handlers
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsStateRequired reports whether err is a missing-state failure
func IsStateRequired(err error) bool {
	return errors.Is(err, ErrStateRequired)
}

// IsMergeConflict reports whether err is an exhausted-retries merge failure
func IsMergeConflict(err error) bool {
	return errors.Is(err, ErrMergeConflict)
}

// IsUnknownMaterializerMode reports whether err is a bad-mode failure
func IsUnknownMaterializerMode(err error) bool {
	return errors.Is(err, ErrUnknownMaterializer)
}

// IsStateNotFound reports whether err is an unknown-state failure
func IsStateNotFound(err error) bool {
	return errors.Is(err, ErrStateNotFound)
}

// IsSalesRepNotFound reports whether err is an unknown-rep failure
func IsSalesRepNotFound(err error) bool {
	return errors.Is(err, ErrSalesRepNotFound)
}

// IsAdminNotFound reports whether err is an unknown-admin failure
func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

// IsAdminInactive reports whether err is an inactive-admin failure
func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

// IsIncorrectPassword reports whether err is a bad-credentials failure
func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}
