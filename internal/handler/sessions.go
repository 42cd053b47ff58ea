package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/service"
)

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	Profile  string `json:"profile"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// CustomerRequest answers step one.
type CustomerRequest struct {
	Type             domain.CustomerType     `json:"type" validate:"required"`
	ExistingBookings domain.ExistingBookings `json:"existing_bookings"`
}

// DraftPatchRequest is the body of PATCH /sessions/{id}/draft. Absent fields
// are left untouched.
type DraftPatchRequest struct {
	Customer          *CustomerRequest  `json:"customer"`
	ResidenceCountry  *string           `json:"residence_country"`
	StartDate         *types.Date       `json:"start_date"`
	EndDate           *types.Date       `json:"end_date"`
	Travelers         *domain.Travelers `json:"travelers"`
	Budget            *float64          `json:"budget"`
	Currency          *string           `json:"currency"`
	FoodPreferences   *string           `json:"food_preferences"`
	AccommodationType *string           `json:"accommodation_type"`
	CabinClass        *string           `json:"cabin_class"`
	InsuranceWanted   *bool             `json:"insurance_wanted"`
}

// NameRequest is the body of the interest toggles.
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// JumpRequest is the body of POST /sessions/{id}/jump.
type JumpRequest struct {
	Step *int `json:"step" validate:"required"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decode(r, &req, true); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	view, err := s.sessions.Create(r.Context(), req.Profile, req.Currency)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondView(w, r)(s.sessions.Get(r.Context(), id))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateDraft handles PATCH /sessions/{id}/draft.
func (s *Server) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req DraftPatchRequest
	if err := s.decode(r, &req, false); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.respondView(w, r)(s.sessions.UpdateDraft(r.Context(), id, req.patch()))
}

// TogglePassport handles POST /sessions/{id}/passports/{code}.
func (s *Server) TogglePassport(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondView(w, r)(s.sessions.TogglePassport(r.Context(), id, chi.URLParam(r, "code")))
}

// ToggleInterest handles POST /sessions/{id}/interests.
func (s *Server) ToggleInterest(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := s.decode(r, &req, false); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.respondView(w, r)(s.sessions.ToggleInterest(r.Context(), id, req.Name))
}

// ToggleFitnessInterest handles POST /sessions/{id}/fitness-interests.
func (s *Server) ToggleFitnessInterest(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req NameRequest
	if err := s.decode(r, &req, false); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.respondView(w, r)(s.sessions.ToggleFitnessInterest(r.Context(), id, req.Name))
}

// AddDestination handles POST /sessions/{id}/destinations.
func (s *Server) AddDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondView(w, r)(s.sessions.AddDestination(r.Context(), id))
}

// RemoveDestination handles DELETE /sessions/{id}/destinations/{index}.
func (s *Server) RemoveDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		writeRequestError(w, "index must be a non-negative integer")
		return
	}
	s.respondView(w, r)(s.sessions.RemoveDestination(r.Context(), id, i))
}

// ToggleDepartureAirport handles POST /sessions/{id}/departure/airports/{code}.
func (s *Server) ToggleDepartureAirport(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondView(w, r)(s.sessions.ToggleDepartureAirport(r.Context(), id, chi.URLParam(r, "code")))
}

// Advance handles POST /sessions/{id}/advance.
// A step whose gate is not satisfied answers 200 with moved=false.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	res, err := s.sessions.Advance(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Retreat handles POST /sessions/{id}/retreat.
func (s *Server) Retreat(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s.respondView(w, r)(s.sessions.Retreat(r.Context(), id))
}

// JumpTo handles POST /sessions/{id}/jump.
func (s *Server) JumpTo(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req JumpRequest
	if err := s.decode(r, &req, false); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.respondView(w, r)(s.sessions.JumpTo(r.Context(), id, *req.Step))
}

// --- helpers ----------------------------------------------------------------

// respondView writes the outcome of a session operation.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request) func(service.SessionView, error) {
	return func(v service.SessionView, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// sessionID parses the {id} path parameter. A malformed ID can never name a
// session, so it is answered with 404.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, codeNotFound, "session not found")
		return uuid.Nil, false
	}
	return id, true
}

// patch converts the wire request into a service patch.
func (req DraftPatchRequest) patch() service.DraftPatch {
	p := service.DraftPatch{
		ResidenceCountry: req.ResidenceCountry,
		Travelers:        req.Travelers,
		Budget:           req.Budget,
		Currency:         req.Currency,
		Food:             req.FoodPreferences,
		Accommodation:    req.AccommodationType,
		CabinClass:       req.CabinClass,
		InsuranceWanted:  req.InsuranceWanted,
	}
	if req.Customer != nil {
		p.Customer = &service.CustomerPatch{
			Type:     req.Customer.Type,
			Bookings: req.Customer.ExistingBookings,
		}
	}
	if req.StartDate != nil {
		t := req.StartDate.Time
		p.StartDate = &t
	}
	if req.EndDate != nil {
		t := req.EndDate.Time
		p.EndDate = &t
	}
	return p
}
