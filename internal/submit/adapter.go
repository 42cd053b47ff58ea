// Package submit turns a completed draft into a trip generation request,
// sends it, and normalizes the generator's error responses into one message.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-wizard/internal/derive"
	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/lookup"
	"github.com/pkordes/trip-wizard/internal/wizard"
)

// Generator posts a request to the trip generation endpoint.
// Satisfied by *lookup.Client.
type Generator interface {
	GenerateTrip(ctx context.Context, payload any) (domain.GeneratedTrip, error)
}

// Adapter builds and sends trip generation requests.
type Adapter struct {
	gen      Generator
	validate *validator.Validate
	log      *slog.Logger
}

// compile-time check: Adapter must satisfy wizard.Submitter.
var _ wizard.Submitter = (*Adapter)(nil)

// NewAdapter returns an Adapter that sends through gen.
func NewAdapter(gen Generator, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateTravelers, domain.Travelers{})
	return &Adapter{gen: gen, validate: v, log: log}
}

// BuildRequest runs every gate of p against d, maps the draft to the wire
// request and validates it. Failures wrap domain.ErrValidation.
func (a *Adapter) BuildRequest(p wizard.Profile, d *domain.TripDraft) (TripRequest, error) {
	if step := p.FirstBlocked(d); step != 0 {
		return TripRequest{}, fmt.Errorf("submit.Adapter.BuildRequest: %w: step %d (%s) is incomplete",
			domain.ErrValidation, step, p.GateFor(step))
	}
	if d.StartDate == nil || d.EndDate == nil {
		return TripRequest{}, fmt.Errorf("submit.Adapter.BuildRequest: %w: travel dates are required", domain.ErrValidation)
	}
	if err := checkCatalogs(p, d); err != nil {
		return TripRequest{}, fmt.Errorf("submit.Adapter.BuildRequest: %w", err)
	}

	req := TripRequest{
		CustomerType:      string(d.Customer.Type()),
		PassportCountries: nonNil(d.PassportCountries),
		ResidenceCountry:  d.ResidenceCountry,
		DepartureLocation: strings.TrimSpace(d.Departure.Label()),
		DepartureAirports: nonNil(d.Departure.SelectedAirports()),
		StartDate:         types.Date{Time: domain.Day(*d.StartDate)},
		EndDate:           types.Date{Time: domain.Day(*d.EndDate)},
		Budget:            d.Budget,
		Currency:          d.Currency,
		Travelers:         d.Travelers,
		FoodPreferences:   d.Preferences.Food,
		AccommodationType: d.Preferences.Accommodation,
		Interests:         nonNil(d.Preferences.Interests),
		FitnessInterests:  nonNil(d.Preferences.FitnessInterests),
		CabinClass:        d.Preferences.CabinClass,
	}
	hasInsurance := false
	if b, ok := d.Customer.Bookings(); ok {
		req.ExistingBookings = existingBookings(b)
		hasInsurance = b.HasInsurance
	}
	req.NeedInsurance = d.Preferences.InsuranceWanted && !hasInsurance
	for _, dest := range d.Destinations {
		if label := strings.TrimSpace(dest.Label()); label != "" {
			req.Destinations = append(req.Destinations, label)
		}
	}

	if err := a.validate.Struct(req); err != nil {
		return TripRequest{}, fmt.Errorf("submit.Adapter.BuildRequest: %w: %s", domain.ErrValidation, describe(err))
	}
	return req, nil
}

// Send posts req once. Any failure is returned as *Error.
func (a *Adapter) Send(ctx context.Context, req TripRequest) (domain.GeneratedTrip, error) {
	trip, err := a.gen.GenerateTrip(ctx, req)
	if err == nil {
		return trip, nil
	}
	var se *lookup.StatusError
	if errors.As(err, &se) {
		msg := NormalizeDetail(se.Body)
		a.log.Warn("trip generation rejected", "status", se.StatusCode, "message", msg)
		return nil, &Error{StatusCode: se.StatusCode, Message: msg, Err: err}
	}
	a.log.Error("trip generation failed", "error", err)
	return nil, &Error{Message: FallbackMessage, Err: err}
}

// Submit builds the request for d and sends it.
func (a *Adapter) Submit(ctx context.Context, p wizard.Profile, d *domain.TripDraft) (domain.GeneratedTrip, error) {
	req, err := a.BuildRequest(p, d)
	if err != nil {
		return nil, err
	}
	return a.Send(ctx, req)
}

func checkCatalogs(p wizard.Profile, d *domain.TripDraft) error {
	pr := d.Preferences
	single := []struct {
		field, value string
		catalog      []string
	}{
		{"food_preferences", pr.Food, p.Options.Food},
		{"accommodation_type", pr.Accommodation, p.Options.Accommodation},
		{"cabin_class", pr.CabinClass, p.Options.CabinClasses},
	}
	for _, s := range single {
		if !wizard.Allows(s.catalog, s.value) {
			return fmt.Errorf("%w: %s %q is not offered", domain.ErrValidation, s.field, s.value)
		}
	}
	for _, v := range pr.Interests {
		if !wizard.Allows(p.Options.Interests, v) {
			return fmt.Errorf("%w: interest %q is not offered", domain.ErrValidation, v)
		}
	}
	for _, v := range pr.FitnessInterests {
		if !wizard.Allows(p.Options.Fitness, v) {
			return fmt.Errorf("%w: fitness interest %q is not offered", domain.ErrValidation, v)
		}
	}
	if p.InterestLimit > 0 && len(pr.Interests) > p.InterestLimit {
		return fmt.Errorf("%w: at most %d interests", domain.ErrValidation, p.InterestLimit)
	}
	return nil
}

func validateTravelers(sl validator.StructLevel) {
	t := sl.Current().Interface().(domain.Travelers)
	if err := t.Validate(); err != nil {
		sl.ReportError(t, "travelers", "Travelers", "nonnegative", "")
		return
	}
	if derive.TotalTravelers(t) == 0 {
		sl.ReportError(t, "travelers", "Travelers", "party", "")
	}
}

// describe renders validator errors as "field: rule" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
