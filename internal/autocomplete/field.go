// Package autocomplete implements the city search input of the wizard:
// debounced lookups, suggestion panel state, and discarding of stale responses.
//
// Each Field owns at most one pending debounce timer. Every query it sends is
// tagged with a sequence number; a response only updates the field when its
// sequence is still the field's latest and its query still matches the text.
// Requests already sent are not cancelled individually; their late answers
// are simply dropped.
package autocomplete

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pkordes/trip-wizard/internal/domain"
)

// Defaults for Options fields left zero.
const (
	DefaultDebounce    = 250 * time.Millisecond
	DefaultBlurGrace   = 200 * time.Millisecond
	DefaultMinQueryLen = 2
)

// Lookup fetches city suggestions for a query.
type Lookup interface {
	Cities(ctx context.Context, q string) ([]domain.CitySuggestion, error)
}

// Options tune a Field. Zero values select the defaults.
type Options struct {
	Debounce    time.Duration
	BlurGrace   time.Duration
	MinQueryLen int
	Clock       Clock
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.BlurGrace <= 0 {
		o.BlurGrace = DefaultBlurGrace
	}
	if o.MinQueryLen <= 0 {
		o.MinQueryLen = DefaultMinQueryLen
	}
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// State is a snapshot of a field.
type State struct {
	Text        string                  `json:"text"`
	Suggestions []domain.CitySuggestion `json:"suggestions"`
	Visible     bool                    `json:"visible"`
	Pending     bool                    `json:"pending"`
	Seq         uint64                  `json:"seq"`
}

// Field is one autocomplete input. It is safe for concurrent use.
type Field struct {
	name   string
	lookup Lookup
	opts   Options
	log    *slog.Logger

	// ctx is cancelled by Close so in-flight lookups can stop early.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	text        string
	focused     bool
	closed      bool
	debounce    Timer
	debounceGen uint64
	blur        Timer
	blurGen     uint64
	seq         uint64
	suggestions []domain.CitySuggestion
	visible     bool
	pending     bool
}

// New returns a Field named name (used in logs) that queries lookup.
func New(name string, lookup Lookup, opts Options) *Field {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Field{
		name:   name,
		lookup: lookup,
		opts:   opts,
		log:    opts.Logger.With("field", name),
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnType records a keystroke. Input shorter than the minimum query length
// clears and hides the suggestions; otherwise the debounce timer restarts and
// only the timer that survives issues a lookup.
func (f *Field) OnType(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.text = text
	f.focused = true
	f.cancelBlurLocked()
	f.stopDebounceLocked()

	q := strings.TrimSpace(text)
	if !f.queryable(q) {
		f.invalidateLocked()
		return
	}
	gen := f.debounceGen
	f.debounce = f.opts.Clock.AfterFunc(f.opts.Debounce, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.closed || gen != f.debounceGen {
			return
		}
		f.debounce = nil
		f.issueLocked(q)
	})
}

// Focus marks the input focused and re-runs the current query immediately
// when it is long enough.
func (f *Field) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.focused = true
	f.cancelBlurLocked()

	q := strings.TrimSpace(f.text)
	if !f.queryable(q) {
		return
	}
	f.stopDebounceLocked()
	f.issueLocked(q)
}

// Blur closes the panel after the grace delay. A Select that arrives within
// the grace delay still succeeds.
func (f *Field) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.focused = false
	f.cancelBlurLocked()
	gen := f.blurGen
	f.blur = f.opts.Clock.AfterFunc(f.opts.BlurGrace, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if gen != f.blurGen || f.focused {
			return
		}
		f.blur = nil
		f.visible = false
	})
}

// Select picks the suggestion at index from the visible panel. The field text
// becomes the suggestion's "City, Country" label, the panel closes, and any
// lookup still in flight is discarded when it returns.
func (f *Field) Select(index int) (domain.CitySuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || !f.visible || index < 0 || index >= len(f.suggestions) {
		return domain.CitySuggestion{}, fmt.Errorf("autocomplete.Field.Select: %s[%d]: %w", f.name, index, domain.ErrNoSuggestion)
	}
	s := f.suggestions[index]
	f.text = s.Label()
	f.stopDebounceLocked()
	f.invalidateLocked()
	return s, nil
}

// Reset replaces the text without querying, e.g. when a stored draft is
// restored. Suggestions are cleared.
func (f *Field) Reset(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.text = text
	f.stopDebounceLocked()
	f.invalidateLocked()
}

// State returns a snapshot of the field.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Text:        f.text,
		Suggestions: append([]domain.CitySuggestion{}, f.suggestions...),
		Visible:     f.visible,
		Pending:     f.pending,
		Seq:         f.seq,
	}
}

// Close stops the field's timers, cancels in-flight lookups and waits for
// them to return. Close is idempotent.
func (f *Field) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.stopDebounceLocked()
	f.cancelBlurLocked()
	f.mu.Unlock()

	f.cancel()
	f.wg.Wait()
}

func (f *Field) queryable(q string) bool {
	return utf8.RuneCountInString(q) >= f.opts.MinQueryLen
}

// issueLocked starts a lookup for q tagged with the next sequence number.
func (f *Field) issueLocked(q string) {
	f.seq++
	seq := f.seq
	f.pending = true
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		res, err := f.lookup.Cities(f.ctx, q)
		f.complete(seq, q, res, err)
	}()
}

func (f *Field) complete(seq uint64, q string, res []domain.CitySuggestion, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Both the sequence and the text must still match: a keystroke that has
	// not yet produced a new query already makes this answer stale.
	if f.closed || seq != f.seq || q != strings.TrimSpace(f.text) {
		f.log.Debug("discarding stale suggestions", "query", q, "seq", seq, "current_seq", f.seq)
		return
	}
	f.pending = false
	if err != nil {
		f.log.Warn("city lookup failed", "query", q, "error", err)
		return
	}
	f.suggestions = res
	f.visible = f.focused && len(res) > 0
}

// invalidateLocked hides the panel and makes every outstanding response stale.
func (f *Field) invalidateLocked() {
	f.seq++
	f.suggestions = nil
	f.visible = false
	f.pending = false
}

func (f *Field) stopDebounceLocked() {
	f.debounceGen++
	if f.debounce != nil {
		f.debounce.Stop()
		f.debounce = nil
	}
}

func (f *Field) cancelBlurLocked() {
	f.blurGen++
	if f.blur != nil {
		f.blur.Stop()
		f.blur = nil
	}
}
