// Package handler implements the HTTP API of the trip wizard.
// All handlers are methods on Server. They are split into files by resource
// (health.go, reference.go, sessions.go, fields.go) and share the Server's
// dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/trip-wizard/internal/autocomplete"
	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/service"
)

// SessionServicer defines the wizard session operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without the service, repo or upstream client.
type SessionServicer interface {
	Create(ctx context.Context, profile, currency string) (service.SessionView, error)
	Get(ctx context.Context, id uuid.UUID) (service.SessionView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateDraft(ctx context.Context, id uuid.UUID, patch service.DraftPatch) (service.SessionView, error)
	TogglePassport(ctx context.Context, id uuid.UUID, code string) (service.SessionView, error)
	ToggleInterest(ctx context.Context, id uuid.UUID, name string) (service.SessionView, error)
	ToggleFitnessInterest(ctx context.Context, id uuid.UUID, name string) (service.SessionView, error)
	AddDestination(ctx context.Context, id uuid.UUID) (service.SessionView, error)
	RemoveDestination(ctx context.Context, id uuid.UUID, i int) (service.SessionView, error)
	ToggleDepartureAirport(ctx context.Context, id uuid.UUID, code string) (service.SessionView, error)
	Field(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error)
	FieldInput(ctx context.Context, id uuid.UUID, name, text string) (autocomplete.State, error)
	FieldFocus(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error)
	FieldBlur(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error)
	FieldSelect(ctx context.Context, id uuid.UUID, name string, index int) (autocomplete.State, error)
	Advance(ctx context.Context, id uuid.UUID) (service.AdvanceResult, error)
	Retreat(ctx context.Context, id uuid.UUID) (service.SessionView, error)
	JumpTo(ctx context.Context, id uuid.UUID, step int) (service.SessionView, error)
}

// ReferenceServicer defines the reference data operations the handlers depend on.
type ReferenceServicer interface {
	Countries(ctx context.Context) []domain.Country
	Currencies(ctx context.Context) []domain.Currency
	Convert(ctx context.Context, amount float64, from, to string) float64
}

// Server holds the dependencies of every handler.
type Server struct {
	sessions  SessionServicer
	reference ReferenceServicer
	validate  *validator.Validate
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(sessions SessionServicer, reference ReferenceServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		sessions:  sessions,
		reference: reference,
		validate:  newValidator(),
		log:       log,
	}
}

// Routes returns a chi router serving the whole API. Cross-cutting middleware
// (request IDs, logging, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/reference", func(r chi.Router) {
		r.Get("/countries", s.ListCountries)
		r.Get("/currencies", s.ListCurrencies)
		r.Get("/convert", s.ConvertAmount)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Patch("/draft", s.UpdateDraft)
			r.Post("/passports/{code}", s.TogglePassport)
			r.Post("/interests", s.ToggleInterest)
			r.Post("/fitness-interests", s.ToggleFitnessInterest)
			r.Post("/destinations", s.AddDestination)
			r.Delete("/destinations/{index}", s.RemoveDestination)
			r.Post("/departure/airports/{code}", s.ToggleDepartureAirport)

			r.Route("/fields/{field}", func(r chi.Router) {
				r.Get("/", s.GetField)
				r.Post("/input", s.FieldInput)
				r.Post("/focus", s.FieldFocus)
				r.Post("/blur", s.FieldBlur)
				r.Post("/select", s.FieldSelect)
			})

			r.Post("/advance", s.Advance)
			r.Post("/retreat", s.Retreat)
			r.Post("/jump", s.JumpTo)
		})
	})

	return r
}

