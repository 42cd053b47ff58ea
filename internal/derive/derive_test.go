package derive_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-wizard/internal/derive"
	"github.com/pkordes/trip-wizard/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTripDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", date(2025, 6, 1), date(2025, 6, 1), 1},
		{"four days apart", date(2025, 6, 1), date(2025, 6, 5), 5},
		{"end before start", date(2025, 6, 5), date(2025, 6, 1), 0},
		{"one day before", date(2025, 6, 2), date(2025, 6, 1), 0},
		{"across month end", date(2025, 1, 30), date(2025, 2, 2), 4},
		{"six centuries", date(1500, 1, 1), date(2100, 1, 1), 219147},
		{"six centuries reversed", date(2100, 1, 1), date(1500, 1, 1), 0},
		{"time of day ignored", time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC), 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, derive.TripDays(tc.start, tc.end))
		})
	}
}

func TestDraftTripDays_UnsetDates(t *testing.T) {
	d := domain.NewTripDraft("USD")
	assert.Equal(t, 0, derive.DraftTripDays(d))

	start := date(2025, 9, 1)
	d.StartDate = &start
	assert.Equal(t, 0, derive.DraftTripDays(d), "end date still unset")
}

func TestTotalTravelers(t *testing.T) {
	got := derive.TotalTravelers(domain.Travelers{
		Adults: 2, Seniors: 1, ChildrenAbove10: 1, ChildrenBelow10: 3, Infants: 1,
	})
	assert.Equal(t, 8, got)
	assert.Equal(t, 0, derive.TotalTravelers(domain.Travelers{}))
}

func TestPerPersonBudget(t *testing.T) {
	v, ok := derive.PerPersonBudget(1000, 4)
	require.True(t, ok)
	assert.Equal(t, 250.0, v)

	v, ok = derive.PerPersonBudget(1000, 0)
	assert.False(t, ok, "no travelers means undefined, not Inf")
	assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
}

func TestConvert(t *testing.T) {
	rates := map[string]float64{"USD": 1, "EUR": 0.9, "JPY": 150}

	assert.Equal(t, 100.0, derive.Convert(100, "USD", "USD", rates))
	assert.Equal(t, 90.0, derive.Convert(100, "USD", "EUR", map[string]float64{"USD": 1, "EUR": 0.9}))
	assert.Equal(t, 16667.0, derive.Convert(100, "EUR", "JPY", rates), "rounded to whole units")
}

func TestConvert_UnknownRateFallsBack(t *testing.T) {
	assert.Equal(t, 100.0, derive.Convert(100, "USD", "XXX", map[string]float64{"USD": 1}))
	assert.Equal(t, 100.0, derive.Convert(100, "XXX", "USD", map[string]float64{"USD": 1}))
	assert.Equal(t, 42.5, derive.Convert(42.5, "USD", "EUR", nil), "unknown rates leave the amount untouched")
	assert.Equal(t, 100.0, derive.Convert(100, "ZZZ", "USD", map[string]float64{"USD": 1, "ZZZ": 0}))
}

func TestSummarize(t *testing.T) {
	d := domain.NewTripDraft("USD")
	start, end := date(2025, 9, 1), date(2025, 9, 8)
	d.StartDate, d.EndDate = &start, &end
	d.Travelers = domain.Travelers{Adults: 2}
	d.Budget = 4000

	s := derive.Summarize(d)

	assert.Equal(t, 8, s.TripDays)
	assert.Equal(t, 2, s.TotalTravelers)
	require.NotNil(t, s.PerPerson)
	assert.Equal(t, 2000.0, *s.PerPerson)

	d.Travelers = domain.Travelers{}
	assert.Nil(t, derive.Summarize(d).PerPerson)
}
