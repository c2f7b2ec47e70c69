package adoption

import "errors"

// Sentinel errors for lifecycle guards. Handlers translate these with
// errors.Is into 404 / 403 / 409 / 400 responses.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation failed")
)
