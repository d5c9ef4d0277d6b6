package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrValidation       = errors.New("validation failed")
	ErrExternalService  = errors.New("external service failure")
	ErrPermissionDenied = errors.New("permission denied")
)

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
