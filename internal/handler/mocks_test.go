package handler_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/trip-wizard/internal/autocomplete"
	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/handler"
	"github.com/pkordes/trip-wizard/internal/service"
)

// mockSessionServicer is a test double for handler.SessionServicer.
// Set only the method fields your test needs.
type mockSessionServicer struct {
	create                 func(ctx context.Context, profile, currency string) (service.SessionView, error)
	get                    func(ctx context.Context, id uuid.UUID) (service.SessionView, error)
	delete                 func(ctx context.Context, id uuid.UUID) error
	updateDraft            func(ctx context.Context, id uuid.UUID, patch service.DraftPatch) (service.SessionView, error)
	togglePassport         func(ctx context.Context, id uuid.UUID, code string) (service.SessionView, error)
	toggleInterest         func(ctx context.Context, id uuid.UUID, name string) (service.SessionView, error)
	toggleFitnessInterest  func(ctx context.Context, id uuid.UUID, name string) (service.SessionView, error)
	addDestination         func(ctx context.Context, id uuid.UUID) (service.SessionView, error)
	removeDestination      func(ctx context.Context, id uuid.UUID, i int) (service.SessionView, error)
	toggleDepartureAirport func(ctx context.Context, id uuid.UUID, code string) (service.SessionView, error)
	field                  func(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error)
	fieldInput             func(ctx context.Context, id uuid.UUID, name, text string) (autocomplete.State, error)
	fieldFocus             func(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error)
	fieldBlur              func(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error)
	fieldSelect            func(ctx context.Context, id uuid.UUID, name string, index int) (autocomplete.State, error)
	advance                func(ctx context.Context, id uuid.UUID) (service.AdvanceResult, error)
	retreat                func(ctx context.Context, id uuid.UUID) (service.SessionView, error)
	jumpTo                 func(ctx context.Context, id uuid.UUID, step int) (service.SessionView, error)
}

func (m *mockSessionServicer) Create(ctx context.Context, profile, currency string) (service.SessionView, error) {
	return m.create(ctx, profile, currency)
}
func (m *mockSessionServicer) Get(ctx context.Context, id uuid.UUID) (service.SessionView, error) {
	return m.get(ctx, id)
}
func (m *mockSessionServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockSessionServicer) UpdateDraft(ctx context.Context, id uuid.UUID, p service.DraftPatch) (service.SessionView, error) {
	return m.updateDraft(ctx, id, p)
}
func (m *mockSessionServicer) TogglePassport(ctx context.Context, id uuid.UUID, code string) (service.SessionView, error) {
	return m.togglePassport(ctx, id, code)
}
func (m *mockSessionServicer) ToggleInterest(ctx context.Context, id uuid.UUID, name string) (service.SessionView, error) {
	return m.toggleInterest(ctx, id, name)
}
func (m *mockSessionServicer) ToggleFitnessInterest(ctx context.Context, id uuid.UUID, name string) (service.SessionView, error) {
	return m.toggleFitnessInterest(ctx, id, name)
}
func (m *mockSessionServicer) AddDestination(ctx context.Context, id uuid.UUID) (service.SessionView, error) {
	return m.addDestination(ctx, id)
}
func (m *mockSessionServicer) RemoveDestination(ctx context.Context, id uuid.UUID, i int) (service.SessionView, error) {
	return m.removeDestination(ctx, id, i)
}
func (m *mockSessionServicer) ToggleDepartureAirport(ctx context.Context, id uuid.UUID, code string) (service.SessionView, error) {
	return m.toggleDepartureAirport(ctx, id, code)
}
func (m *mockSessionServicer) Field(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error) {
	return m.field(ctx, id, name)
}
func (m *mockSessionServicer) FieldInput(ctx context.Context, id uuid.UUID, name, text string) (autocomplete.State, error) {
	return m.fieldInput(ctx, id, name, text)
}
func (m *mockSessionServicer) FieldFocus(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error) {
	return m.fieldFocus(ctx, id, name)
}
func (m *mockSessionServicer) FieldBlur(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error) {
	return m.fieldBlur(ctx, id, name)
}
func (m *mockSessionServicer) FieldSelect(ctx context.Context, id uuid.UUID, name string, index int) (autocomplete.State, error) {
	return m.fieldSelect(ctx, id, name, index)
}
func (m *mockSessionServicer) Advance(ctx context.Context, id uuid.UUID) (service.AdvanceResult, error) {
	return m.advance(ctx, id)
}
func (m *mockSessionServicer) Retreat(ctx context.Context, id uuid.UUID) (service.SessionView, error) {
	return m.retreat(ctx, id)
}
func (m *mockSessionServicer) JumpTo(ctx context.Context, id uuid.UUID, step int) (service.SessionView, error) {
	return m.jumpTo(ctx, id, step)
}

// compile-time check: mockSessionServicer must satisfy handler.SessionServicer.
var _ handler.SessionServicer = (*mockSessionServicer)(nil)

// mockReferenceServicer is a test double for handler.ReferenceServicer.
type mockReferenceServicer struct {
	countries  func(ctx context.Context) []domain.Country
	currencies func(ctx context.Context) []domain.Currency
	convert    func(ctx context.Context, amount float64, from, to string) float64
}

func (m *mockReferenceServicer) Countries(ctx context.Context) []domain.Country {
	return m.countries(ctx)
}
func (m *mockReferenceServicer) Currencies(ctx context.Context) []domain.Currency {
	return m.currencies(ctx)
}
func (m *mockReferenceServicer) Convert(ctx context.Context, amount float64, from, to string) float64 {
	return m.convert(ctx, amount, from, to)
}

// compile-time check: mockReferenceServicer must satisfy handler.ReferenceServicer.
var _ handler.ReferenceServicer = (*mockReferenceServicer)(nil)
