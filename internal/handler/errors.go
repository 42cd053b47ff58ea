package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/submit"
)

// Error codes of ErrorResponse.
const (
	codeNotFound           = "not_found"
	codeValidation         = "validation_error"
	codeNoSuggestion       = "no_suggestion"
	codeStepLocked         = "step_locked"
	codeSubmissionInFlight = "submission_in_flight"
	codeUpstream           = "upstream_error"
	codeInternal           = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine readable code and a message for humans.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps err to a status code and error body. Unknown errors are
// logged and answered with a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var subErr *submit.Error
	switch {
	case errors.Is(err, domain.ErrFieldNotFound):
		writeErrorBody(w, http.StatusNotFound, codeNotFound, "field not found")
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, codeNotFound, "session not found")
	case errors.Is(err, domain.ErrNoSuggestion):
		writeErrorBody(w, http.StatusUnprocessableEntity, codeNoSuggestion, "no suggestion at that position")
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, sentinelMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrStepLocked):
		writeErrorBody(w, http.StatusConflict, codeStepLocked, "step has not been reached yet")
	case errors.Is(err, domain.ErrSubmissionInFlight):
		writeErrorBody(w, http.StatusConflict, codeSubmissionInFlight, "trip generation already in progress")
	case errors.As(err, &subErr):
		s.log.WarnContext(r.Context(), "trip generation failed", "status", subErr.StatusCode, "error", subErr.Err)
		writeErrorBody(w, http.StatusBadGateway, codeUpstream, subErr.Message)
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeErrorBody(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// writeRequestError answers a request rejected before reaching the service
// layer (malformed body, bad path parameter).
func writeRequestError(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnprocessableEntity, codeValidation, message)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// sentinelMessage extracts the human-readable part that follows the sentinel
// in a wrapped error.
// e.g. "service.SessionService.UpdateDraft: validation error: budget must not be negative"
// → "budget must not be negative"
func sentinelMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}

// validationMessage turns validator errors into a single sentence naming the
// offending JSON fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		default:
			parts = append(parts, fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
