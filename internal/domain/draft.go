// Package domain contains the core data types of the trip planning wizard.
// This package has no transport or storage dependencies and is imported by
// every other internal package (wizard, autocomplete, submit, service, repo, handler).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxDestinations is the upper bound on the destination list.
const MaxDestinations = 5

// Option defaults applied to a new draft.
const (
	DefaultFood          = "No preference"
	DefaultAccommodation = "mid-range"
	DefaultCabinClass    = "economy"
	DefaultCurrency      = "USD"
)

// Travelers holds the party composition. All counts are non-negative.
type Travelers struct {
	Adults          int `json:"adults"`
	Seniors         int `json:"seniors"`
	ChildrenAbove10 int `json:"children_above_10"`
	ChildrenBelow10 int `json:"children_below_10"`
	Infants         int `json:"infants"`
}

// Validate rejects negative counts.
func (t Travelers) Validate() error {
	for name, n := range map[string]int{
		"adults":            t.Adults,
		"seniors":           t.Seniors,
		"children_above_10": t.ChildrenAbove10,
		"children_below_10": t.ChildrenBelow10,
		"infants":           t.Infants,
	} {
		if n < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
		}
	}
	return nil
}

// Preferences is the last step of the wizard.
// Interests and FitnessInterests have set semantics and keep insertion order.
type Preferences struct {
	Food             string   `json:"food"`
	Accommodation    string   `json:"accommodation"`
	CabinClass       string   `json:"cabin_class"`
	Interests        []string `json:"interests"`
	FitnessInterests []string `json:"fitness_interests"`
	InsuranceWanted  bool     `json:"insurance_wanted"`
}

// TripDraft is the trip request under construction. It is created when a
// wizard session starts, mutated only through the session's controller, and
// discarded once the trip is generated.
type TripDraft struct {
	Customer          Customer    `json:"customer"`
	PassportCountries []string    `json:"passport_countries"`
	ResidenceCountry  string      `json:"residence_country,omitempty"`
	Departure         Place       `json:"departure"`
	Destinations      []Place     `json:"destinations"`
	StartDate         *time.Time  `json:"start_date,omitempty"`
	EndDate           *time.Time  `json:"end_date,omitempty"`
	Travelers         Travelers   `json:"travelers"`
	Budget            float64     `json:"budget"`
	Currency          string      `json:"currency"`
	Preferences       Preferences `json:"preferences"`
}

// NewTripDraft returns an empty draft with the wizard defaults: a fresh
// customer, one adult, one empty destination and insurance wanted.
func NewTripDraft(currency string) *TripDraft {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &TripDraft{
		Customer:          FreshCustomer(),
		PassportCountries: []string{},
		Destinations:      []Place{{}},
		Travelers:         Travelers{Adults: 1},
		Currency:          currency,
		Preferences: Preferences{
			Food:             DefaultFood,
			Accommodation:    DefaultAccommodation,
			CabinClass:       DefaultCabinClass,
			Interests:        []string{},
			FitnessInterests: []string{},
			InsuranceWanted:  true,
		},
	}
}

// TogglePassport adds code to the passport set, or removes it if present.
// Toggling the same code twice restores the original set.
func (d *TripDraft) TogglePassport(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}
	d.PassportCountries = toggle(d.PassportCountries, code)
}

// HasDestinationCity reports whether at least one destination has a city.
func (d *TripDraft) HasDestinationCity() bool {
	for _, p := range d.Destinations {
		if p.HasCity() {
			return true
		}
	}
	return false
}

// AddDestination appends an empty destination. It is a no-op once limit
// destinations exist; limits outside (0, MaxDestinations] mean MaxDestinations.
// It reports whether a destination was added.
func (d *TripDraft) AddDestination(limit int) bool {
	if limit <= 0 || limit > MaxDestinations {
		limit = MaxDestinations
	}
	if len(d.Destinations) >= limit {
		return false
	}
	d.Destinations = append(d.Destinations, Place{})
	return true
}

// RemoveDestination removes the destination at index i. Removing the last
// remaining destination, or an index out of range, is a no-op.
// It reports whether a destination was removed.
func (d *TripDraft) RemoveDestination(i int) bool {
	if len(d.Destinations) <= 1 || i < 0 || i >= len(d.Destinations) {
		return false
	}
	d.Destinations = append(d.Destinations[:i:i], d.Destinations[i+1:]...)
	return true
}

// SetDates sets the travel window. Dates are truncated to calendar days in
// UTC. A nil date clears it. The end date must not be before the start date.
func (d *TripDraft) SetDates(start, end *time.Time) error {
	s, e := dayPtr(start), dayPtr(end)
	if s != nil && e != nil && e.Before(*s) {
		return fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	d.StartDate, d.EndDate = s, e
	return nil
}

// SetTravelers replaces the party composition.
func (d *TripDraft) SetTravelers(t Travelers) error {
	if err := t.Validate(); err != nil {
		return err
	}
	d.Travelers = t
	return nil
}

// SetBudget sets the total budget. Zero clears it; negative values are rejected.
func (d *TripDraft) SetBudget(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	d.Budget = amount
	return nil
}

// ToggleInterest adds or removes an interest. When limit > 0, adding beyond
// limit interests is a no-op. It reports whether the set changed.
func (d *TripDraft) ToggleInterest(name string, limit int) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if !contains(d.Preferences.Interests, name) && limit > 0 && len(d.Preferences.Interests) >= limit {
		return false
	}
	d.Preferences.Interests = toggle(d.Preferences.Interests, name)
	return true
}

// ToggleFitnessInterest adds or removes a fitness interest. The set is unbounded.
func (d *TripDraft) ToggleFitnessInterest(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	d.Preferences.FitnessInterests = toggle(d.Preferences.FitnessInterests, name)
}

// Clone returns a deep copy that shares no memory with d.
func (d *TripDraft) Clone() *TripDraft {
	out := *d
	out.Customer = Customer{kind: d.Customer.kind, bookings: d.Customer.bookings.clone()}
	out.PassportCountries = append([]string{}, d.PassportCountries...)
	out.Departure = d.Departure.clone()
	out.Destinations = make([]Place, len(d.Destinations))
	for i, p := range d.Destinations {
		out.Destinations[i] = p.clone()
	}
	out.StartDate = dayPtr(d.StartDate)
	out.EndDate = dayPtr(d.EndDate)
	out.Preferences.Interests = append([]string{}, d.Preferences.Interests...)
	out.Preferences.FitnessInterests = append([]string{}, d.Preferences.FitnessInterests...)
	return &out
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := Day(*t)
	return &d
}

func toggle(set []string, v string) []string {
	for i, s := range set {
		if s == v {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return append(set, v)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
