package domain

import "errors"

// Error taxonomy for engine operations. Handlers map these to HTTP statuses;
// services wrap them with context via fmt.Errorf("%w: ...").
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)
