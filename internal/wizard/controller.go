package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/trip-wizard/internal/derive"
	"github.com/pkordes/trip-wizard/internal/domain"
)

// Submitter sends a finished draft to the trip generator.
// The draft passed in is a private snapshot; the implementation may keep it.
type Submitter interface {
	Submit(ctx context.Context, p Profile, d *domain.TripDraft) (domain.GeneratedTrip, error)
}

// Outcome describes what an Advance call did.
// A blocked step yields the zero Outcome and a nil error.
type Outcome struct {
	Moved     bool
	Submitted bool
	Trip      domain.GeneratedTrip
}

// View is a consistent snapshot of a controller for display.
type View struct {
	Profile    string            `json:"profile"`
	Step       int               `json:"step"`
	StepCount  int               `json:"step_count"`
	Gate       Gate              `json:"gate"`
	CanProceed bool              `json:"can_proceed"`
	Submitting bool              `json:"submitting"`
	Derived    derive.Summary    `json:"derived"`
	Draft      *domain.TripDraft `json:"draft"`
}

// Controller owns the current step and the draft of one wizard session.
// All draft mutations go through Update so gates always see a consistent draft.
// It is safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	profile    Profile
	draft      *domain.TripDraft
	step       int
	submitting bool

	submitter Submitter
	log       *slog.Logger
}

// NewController returns a controller positioned at step, clamped to the
// profile's range. New sessions start at step 1; restored sessions pass
// their stored step.
func NewController(p Profile, d *domain.TripDraft, step int, s Submitter, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	if step < 1 {
		step = 1
	}
	if step > p.StepCount() {
		step = p.StepCount()
	}
	return &Controller{profile: p, draft: d, step: step, submitter: s, log: log}
}

// Profile returns the controller's profile.
func (c *Controller) Profile() Profile {
	return c.profile
}

// Step returns the current 1-based step.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// CanProceed reports whether the current step's gate holds.
func (c *Controller) CanProceed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile.CanProceed(c.step, c.draft)
}

// Advance moves to the next step when the current gate holds; a blocked gate
// is a no-op. On the last step it submits the draft instead. Only one
// submission may be outstanding; a failed submission leaves the controller on
// the last step so the user can retry.
func (c *Controller) Advance(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return Outcome{}, fmt.Errorf("wizard.Controller.Advance: %w", domain.ErrSubmissionInFlight)
	}
	if !c.profile.CanProceed(c.step, c.draft) {
		c.mu.Unlock()
		return Outcome{}, nil
	}
	if c.step < c.profile.StepCount() {
		c.step++
		c.mu.Unlock()
		return Outcome{Moved: true}, nil
	}
	c.submitting = true
	snapshot := c.draft.Clone()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	trip, err := c.submitter.Submit(ctx, c.profile, snapshot)
	if err != nil {
		c.log.WarnContext(ctx, "trip submission failed", "profile", c.profile.Name, "error", err)
		return Outcome{}, err
	}
	c.log.InfoContext(ctx, "trip submitted", "profile", c.profile.Name)
	return Outcome{Submitted: true, Trip: trip}, nil
}

// Retreat moves back one step. It is a no-op on the first step and reports
// whether the step changed.
func (c *Controller) Retreat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step <= 1 {
		return false
	}
	c.step--
	return true
}

// JumpTo revisits an already reached step. Steps ahead of the current one
// return domain.ErrStepLocked.
func (c *Controller) JumpTo(step int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if step < 1 {
		return fmt.Errorf("%w: step must be at least 1", domain.ErrValidation)
	}
	if step > c.step {
		return fmt.Errorf("wizard.Controller.JumpTo: step %d: %w", step, domain.ErrStepLocked)
	}
	c.step = step
	return nil
}

// Update applies fn to the draft under the controller's lock.
func (c *Controller) Update(fn func(d *domain.TripDraft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.draft)
}

// Snapshot returns the current step and a copy of the draft.
func (c *Controller) Snapshot() (int, *domain.TripDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step, c.draft.Clone()
}

// View returns a snapshot of the controller with derived values.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.draft.Clone()
	return View{
		Profile:    c.profile.Name,
		Step:       c.step,
		StepCount:  c.profile.StepCount(),
		Gate:       c.profile.GateFor(c.step),
		CanProceed: c.profile.CanProceed(c.step, d),
		Submitting: c.submitting,
		Derived:    derive.Summarize(d),
		Draft:      d,
	}
}
