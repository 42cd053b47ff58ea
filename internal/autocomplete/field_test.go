package autocomplete_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-wizard/internal/autocomplete"
	"github.com/pkordes/trip-wizard/internal/domain"
)

// ---- test doubles ----------------------------------------------------------

// manualClock fires timers only when Advance moves time past their deadline.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) autocomplete.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs due callbacks in deadline order on the
// calling goroutine.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

// compile-time check: manualClock must satisfy autocomplete.Clock.
var _ autocomplete.Clock = (*manualClock)(nil)

// fakeLookup records queries. When gated, each query blocks until release(q).
type fakeLookup struct {
	mu      sync.Mutex
	queries []string
	gates   map[string]chan struct{}
	results map[string][]domain.CitySuggestion
	err     error
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		gates:   map[string]chan struct{}{},
		results: map[string][]domain.CitySuggestion{},
	}
}

func (l *fakeLookup) gate(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gates[q] = make(chan struct{})
}

func (l *fakeLookup) release(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	close(l.gates[q])
}

func (l *fakeLookup) Cities(ctx context.Context, q string) ([]domain.CitySuggestion, error) {
	l.mu.Lock()
	l.queries = append(l.queries, q)
	g := l.gates[q]
	res, err := l.results[q], l.err
	l.mu.Unlock()

	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res, err
}

func (l *fakeLookup) calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.queries...)
}

// compile-time check: fakeLookup must satisfy autocomplete.Lookup.
var _ autocomplete.Lookup = (*fakeLookup)(nil)

// ---- helpers ---------------------------------------------------------------

const debounce = 250 * time.Millisecond

func newField(t *testing.T, l *fakeLookup) (*autocomplete.Field, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	f := autocomplete.New("departure", l, autocomplete.Options{
		Debounce:  debounce,
		BlurGrace: 200 * time.Millisecond,
		Clock:     clock,
	})
	t.Cleanup(f.Close)
	return f, clock
}

func city(name, country string, airports ...string) domain.CitySuggestion {
	s := domain.CitySuggestion{City: name, Country: country}
	for _, a := range airports {
		s.Airports = append(s.Airports, domain.Airport{Code: a})
	}
	return s
}

func waitSettled(t *testing.T, f *autocomplete.Field) autocomplete.State {
	t.Helper()
	require.Eventually(t, func() bool { return !f.State().Pending }, 2*time.Second, 5*time.Millisecond)
	return f.State()
}

// ---- tests -----------------------------------------------------------------

func TestField_ShortInputNeverQueries(t *testing.T) {
	l := newFakeLookup()
	f, clock := newField(t, l)

	f.OnType("L")
	clock.Advance(time.Second)

	assert.Empty(t, l.calls())
	st := f.State()
	assert.False(t, st.Visible)
	assert.Empty(t, st.Suggestions)
}

func TestField_DebounceCoalescesKeystrokes(t *testing.T) {
	l := newFakeLookup()
	l.results["Lond"] = []domain.CitySuggestion{city("London", "United Kingdom", "LHR", "LGW")}
	f, clock := newField(t, l)

	for _, text := range []string{"Lo", "Lon", "Lond"} {
		f.OnType(text)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, l.calls(), "no timer survived a full debounce window yet")

	clock.Advance(debounce)
	st := waitSettled(t, f)

	assert.Equal(t, []string{"Lond"}, l.calls())
	assert.True(t, st.Visible)
	require.Len(t, st.Suggestions, 1)
	assert.Equal(t, "London", st.Suggestions[0].City)
}

func TestField_StaleResponseNeverOverwritesNewerQuery(t *testing.T) {
	l := newFakeLookup()
	l.results["Lon"] = []domain.CitySuggestion{city("Long Beach", "USA")}
	l.results["London"] = []domain.CitySuggestion{city("London", "United Kingdom")}
	l.gate("Lon")
	l.gate("London")
	f, clock := newField(t, l)

	f.OnType("Lon")
	clock.Advance(debounce)
	f.OnType("London")
	clock.Advance(debounce)
	require.Eventually(t, func() bool { return len(l.calls()) == 2 }, 2*time.Second, 5*time.Millisecond)

	l.release("London")
	st := waitSettled(t, f)
	require.Len(t, st.Suggestions, 1)
	assert.Equal(t, "London", st.Suggestions[0].City)

	l.release("Lon")
	assert.Never(t, func() bool {
		s := f.State()
		return len(s.Suggestions) != 1 || s.Suggestions[0].City != "London"
	}, 100*time.Millisecond, 5*time.Millisecond, "stale result must be dropped")
}

func TestField_StaleResponseWhilePendingLeavesEmpty(t *testing.T) {
	l := newFakeLookup()
	l.results["Lon"] = []domain.CitySuggestion{city("Long Beach", "USA")}
	l.gate("Lon")
	l.gate("London")
	f, clock := newField(t, l)

	f.OnType("Lon")
	clock.Advance(debounce)
	f.OnType("London")
	clock.Advance(debounce)
	require.Eventually(t, func() bool { return len(l.calls()) == 2 }, 2*time.Second, 5*time.Millisecond)

	l.release("Lon")
	assert.Never(t, func() bool { return len(f.State().Suggestions) > 0 }, 100*time.Millisecond, 5*time.Millisecond)

	st := f.State()
	assert.True(t, st.Pending, "London still outstanding")
	assert.Empty(t, st.Suggestions)

	l.release("London")
	waitSettled(t, f)
}

func TestField_KeystrokeInvalidatesInFlightAnswer(t *testing.T) {
	l := newFakeLookup()
	l.results["Par"] = []domain.CitySuggestion{city("Paris", "France")}
	l.gate("Par")
	f, clock := newField(t, l)

	f.OnType("Par")
	clock.Advance(debounce)
	require.Eventually(t, func() bool { return len(l.calls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	f.OnType("Parm") // debounce timer pending, no new query issued yet
	l.release("Par")

	assert.Never(t, func() bool { return len(f.State().Suggestions) > 0 }, 100*time.Millisecond, 5*time.Millisecond)
}

func TestField_ShortInputClearsAndDropsInFlight(t *testing.T) {
	l := newFakeLookup()
	l.results["Ro"] = []domain.CitySuggestion{city("Rome", "Italy")}
	l.gate("Ro")
	f, clock := newField(t, l)

	f.OnType("Ro")
	clock.Advance(debounce)
	require.Eventually(t, func() bool { return len(l.calls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	f.OnType("R")
	l.release("Ro")

	assert.Never(t, func() bool { return f.State().Visible }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Empty(t, f.State().Suggestions)
}

func TestField_LookupFailureKeepsList(t *testing.T) {
	l := newFakeLookup()
	l.results["Ber"] = []domain.CitySuggestion{city("Berlin", "Germany", "BER")}
	f, clock := newField(t, l)

	f.OnType("Ber")
	clock.Advance(debounce)
	require.Len(t, waitSettled(t, f).Suggestions, 1)

	l.mu.Lock()
	l.err = errors.New("upstream 503")
	l.mu.Unlock()
	f.Focus()

	st := waitSettled(t, f)
	require.Len(t, st.Suggestions, 1, "failure leaves the list unchanged")
	assert.Equal(t, "Berlin", st.Suggestions[0].City)
}

func TestField_SelectWithinBlurGrace(t *testing.T) {
	l := newFakeLookup()
	l.results["Par"] = []domain.CitySuggestion{city("Paris", "France", "CDG", "ORY")}
	f, clock := newField(t, l)

	f.OnType("Par")
	clock.Advance(debounce)
	require.True(t, waitSettled(t, f).Visible)

	// Clicking a suggestion blurs the input first.
	f.Blur()
	clock.Advance(100 * time.Millisecond)
	got, err := f.Select(0)

	require.NoError(t, err)
	assert.Equal(t, "Paris, France", got.Label())
	st := f.State()
	assert.Equal(t, "Paris, France", st.Text)
	assert.False(t, st.Visible)

	clock.Advance(time.Second)
	assert.Equal(t, "Paris, France", f.State().Text)
}

func TestField_SelectAfterBlurGraceFails(t *testing.T) {
	l := newFakeLookup()
	l.results["Par"] = []domain.CitySuggestion{city("Paris", "France")}
	f, clock := newField(t, l)

	f.OnType("Par")
	clock.Advance(debounce)
	require.True(t, waitSettled(t, f).Visible)

	f.Blur()
	clock.Advance(200 * time.Millisecond)

	_, err := f.Select(0)
	assert.ErrorIs(t, err, domain.ErrNoSuggestion)
}

func TestField_FocusCancelsPendingBlur(t *testing.T) {
	l := newFakeLookup()
	l.results["Par"] = []domain.CitySuggestion{city("Paris", "France")}
	f, clock := newField(t, l)

	f.OnType("Par")
	clock.Advance(debounce)
	waitSettled(t, f)

	f.Blur()
	f.Focus()
	waitSettled(t, f)
	clock.Advance(time.Second)

	assert.True(t, f.State().Visible)
	assert.Equal(t, []string{"Par", "Par"}, l.calls(), "focus re-runs the query")
}

func TestField_SelectOutOfRange(t *testing.T) {
	f, _ := newField(t, newFakeLookup())

	_, err := f.Select(3)
	assert.ErrorIs(t, err, domain.ErrNoSuggestion)
}

func TestField_ResetDoesNotQuery(t *testing.T) {
	l := newFakeLookup()
	f, clock := newField(t, l)

	f.Reset("Tokyo, Japan")
	clock.Advance(time.Second)

	assert.Empty(t, l.calls())
	assert.Equal(t, "Tokyo, Japan", f.State().Text)
}

func TestField_CloseCancelsInFlight(t *testing.T) {
	l := newFakeLookup()
	l.gate("Osl")
	f, clock := newField(t, l)

	f.OnType("Osl")
	clock.Advance(debounce)
	require.Eventually(t, func() bool { return len(l.calls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		f.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not cancel the blocked lookup")
	}

	f.OnType("Oslo")
	clock.Advance(time.Second)
	assert.Len(t, l.calls(), 1, "closed fields ignore input")
}

func TestField_SystemClock(t *testing.T) {
	l := newFakeLookup()
	l.results["Rom"] = []domain.CitySuggestion{city("Rome", "Italy", "FCO")}
	f := autocomplete.New("destination-0", l, autocomplete.Options{Debounce: 10 * time.Millisecond})
	defer f.Close()

	f.OnType("Rom")

	require.Eventually(t, func() bool { return f.State().Visible }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"Rom"}, l.calls())
}
