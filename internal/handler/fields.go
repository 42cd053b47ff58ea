package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-wizard/internal/autocomplete"
)

// FieldInputRequest is the body of POST .../fields/{field}/input.
type FieldInputRequest struct {
	Text string `json:"text"`
}

// FieldSelectRequest is the body of POST .../fields/{field}/select.
type FieldSelectRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

// GetField handles GET /sessions/{id}/fields/{field}.
func (s *Server) GetField(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondField(w, r)(s.sessions.Field(r.Context(), id, chi.URLParam(r, "field")))
}

// FieldInput handles POST /sessions/{id}/fields/{field}/input.
// The lookup is debounced; poll GetField for the suggestions.
func (s *Server) FieldInput(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req FieldInputRequest
	if err := s.decode(r, &req, false); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.respondField(w, r)(s.sessions.FieldInput(r.Context(), id, chi.URLParam(r, "field"), req.Text))
}

// FieldFocus handles POST /sessions/{id}/fields/{field}/focus.
func (s *Server) FieldFocus(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondField(w, r)(s.sessions.FieldFocus(r.Context(), id, chi.URLParam(r, "field")))
}

// FieldBlur handles POST /sessions/{id}/fields/{field}/blur.
func (s *Server) FieldBlur(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondField(w, r)(s.sessions.FieldBlur(r.Context(), id, chi.URLParam(r, "field")))
}

// FieldSelect handles POST /sessions/{id}/fields/{field}/select.
func (s *Server) FieldSelect(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req FieldSelectRequest
	if err := s.decode(r, &req, false); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.respondField(w, r)(s.sessions.FieldSelect(r.Context(), id, chi.URLParam(r, "field"), *req.Index))
}

func (s *Server) respondField(w http.ResponseWriter, r *http.Request) func(autocomplete.State, error) {
	return func(st autocomplete.State, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
