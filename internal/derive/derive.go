// Package derive computes the values the wizard shows next to user input:
// trip length, party size, per-person budget and currency conversion.
// Every function is pure; callers recompute on each change instead of storing results.
package derive

import (
	"math"
	"time"

	"github.com/pkordes/trip-wizard/internal/domain"
)

const secondsPerDay = 24 * 60 * 60

// TripDays returns the inclusive number of calendar days between start and
// end. It is 1 when both fall on the same day and 0 when end is before start.
func TripDays(start, end time.Time) int {
	// Counted in Unix seconds: a time.Duration saturates after about 292 years.
	days := int((domain.Day(end).Unix()-domain.Day(start).Unix())/secondsPerDay) + 1
	if days < 0 {
		return 0
	}
	return days
}

// DraftTripDays is TripDays over the draft's dates; 0 while either is unset.
func DraftTripDays(d *domain.TripDraft) int {
	if d.StartDate == nil || d.EndDate == nil {
		return 0
	}
	return TripDays(*d.StartDate, *d.EndDate)
}

// TotalTravelers sums the five traveler categories.
func TotalTravelers(t domain.Travelers) int {
	return t.Adults + t.Seniors + t.ChildrenAbove10 + t.ChildrenBelow10 + t.Infants
}

// PerPersonBudget divides budget by the number of travelers.
// ok is false when there are no travelers; the value must not be displayed then.
func PerPersonBudget(budget float64, travelers int) (float64, bool) {
	if travelers <= 0 {
		return 0, false
	}
	return budget / float64(travelers), true
}

// Convert converts amount between currencies using rates relative to a common
// base, rounded to the nearest whole unit. When either rate is unknown (or
// zero) the amount is returned unchanged.
func Convert(amount float64, from, to string, rates map[string]float64) float64 {
	fromRate, ok := rates[from]
	if !ok || fromRate == 0 {
		return amount
	}
	toRate, ok := rates[to]
	if !ok || toRate == 0 {
		return amount
	}
	return math.Round(amount / fromRate * toRate)
}

// Summary bundles the derived values of a draft.
type Summary struct {
	TripDays       int      `json:"trip_days"`
	TotalTravelers int      `json:"total_travelers"`
	PerPerson      *float64 `json:"per_person_budget,omitempty"`
}

// Summarize computes the Summary of d.
func Summarize(d *domain.TripDraft) Summary {
	s := Summary{
		TripDays:       DraftTripDays(d),
		TotalTravelers: TotalTravelers(d.Travelers),
	}
	if v, ok := PerPersonBudget(d.Budget, s.TotalTravelers); ok {
		s.PerPerson = &v
	}
	return s
}
