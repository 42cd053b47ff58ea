// Package wizard implements the trip planning wizard: the per-step gates that
// decide whether the user may move forward, the profiles that arrange those
// gates into a flow, and the Controller that owns a session's step and draft.
package wizard

import (
	"github.com/pkordes/trip-wizard/internal/derive"
	"github.com/pkordes/trip-wizard/internal/domain"
)

// Gate names a step predicate.
type Gate string

// Known gates, in the order of the standard flow.
const (
	GateCustomer     Gate = "customer"
	GatePassports    Gate = "passports"
	GateDestinations Gate = "destinations"
	GateDates        Gate = "dates"
	GateParty        Gate = "party"
	GatePreferences  Gate = "preferences"
)

var gates = map[Gate]func(d *domain.TripDraft) bool{
	GateCustomer: func(d *domain.TripDraft) bool {
		return d.Customer.IsSet()
	},
	GatePassports: func(d *domain.TripDraft) bool {
		return len(d.PassportCountries) > 0
	},
	GateDestinations: func(d *domain.TripDraft) bool {
		return d.Departure.HasCity() && d.HasDestinationCity()
	},
	GateDates: func(d *domain.TripDraft) bool {
		return d.StartDate != nil && d.EndDate != nil && derive.DraftTripDays(d) > 0
	},
	GateParty: func(d *domain.TripDraft) bool {
		return derive.TotalTravelers(d.Travelers) > 0 && d.Budget > 0
	},
	// The final step never blocks; the generator may still reject the request.
	GatePreferences: func(*domain.TripDraft) bool {
		return true
	},
}

// Valid reports whether g is a known gate.
func (g Gate) Valid() bool {
	_, ok := gates[g]
	return ok
}

// Passes evaluates the gate against d. Unknown gates never pass.
func (g Gate) Passes(d *domain.TripDraft) bool {
	fn, ok := gates[g]
	return ok && fn(d)
}

// StandardSteps is the six-step flow.
var StandardSteps = []Gate{
	GateCustomer, GatePassports, GateDestinations, GateDates, GateParty, GatePreferences,
}

// CanProceed reports whether step of the standard six-step flow is passable
// for d. Steps outside [1, 6] are never passable.
func CanProceed(step int, d *domain.TripDraft) bool {
	if step < 1 || step > len(StandardSteps) {
		return false
	}
	return StandardSteps[step-1].Passes(d)
}
