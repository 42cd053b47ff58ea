package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// wizard session does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. negative traveler count, end date before start date, unknown option).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStepLocked is returned when a caller tries to jump to a step that has not
// been reached yet. Completed steps may be revisited; later ones may not.
var ErrStepLocked = errors.New("step locked")

// ErrSubmissionInFlight is returned when a trip generation request is already
// outstanding for the session.
var ErrSubmissionInFlight = errors.New("submission in flight")

// ErrNoSuggestion is returned when a suggestion is selected while the panel is
// closed or the index is out of range.
var ErrNoSuggestion = errors.New("no such suggestion")

// ErrFieldNotFound is returned when a session has no autocomplete field or
// draft place of the requested name. It wraps ErrNotFound.
var ErrFieldNotFound = fmt.Errorf("field %w", ErrNotFound)
