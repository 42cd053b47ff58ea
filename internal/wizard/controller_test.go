package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/wizard"
)

// mockSubmitter is a hand-written test double for wizard.Submitter.
type mockSubmitter struct {
	submit func(ctx context.Context, p wizard.Profile, d *domain.TripDraft) (domain.GeneratedTrip, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, p wizard.Profile, d *domain.TripDraft) (domain.GeneratedTrip, error) {
	return m.submit(ctx, p, d)
}

// compile-time check: mockSubmitter must satisfy wizard.Submitter.
var _ wizard.Submitter = (*mockSubmitter)(nil)

func standardProfile(t *testing.T) wizard.Profile {
	t.Helper()
	ps, err := wizard.LoadProfiles("")
	require.NoError(t, err)
	p, err := ps.Get("standard")
	require.NoError(t, err)
	return p
}

func okSubmitter() *mockSubmitter {
	return &mockSubmitter{
		submit: func(context.Context, wizard.Profile, *domain.TripDraft) (domain.GeneratedTrip, error) {
			return domain.GeneratedTrip(`{"title":"Paris"}`), nil
		},
	}
}

func TestController_StartsAtStepOne(t *testing.T) {
	c := wizard.NewController(standardProfile(t), domain.NewTripDraft("USD"), 0, okSubmitter(), nil)
	assert.Equal(t, 1, c.Step())
}

func TestController_AdvanceMovesIffGateHolds(t *testing.T) {
	drafts := map[string]func(t *testing.T) *domain.TripDraft{
		"empty":    func(*testing.T) *domain.TripDraft { return domain.NewTripDraft("USD") },
		"complete": completeDraft,
		"no budget": func(t *testing.T) *domain.TripDraft {
			d := completeDraft(t)
			d.Budget = 0
			return d
		},
		"no passports": func(t *testing.T) *domain.TripDraft {
			d := completeDraft(t)
			d.PassportCountries = nil
			return d
		},
	}
	for name, build := range drafts {
		for step := 1; step < 6; step++ {
			d := build(t)
			c := wizard.NewController(standardProfile(t), d, step, okSubmitter(), nil)
			before := c.CanProceed()

			out, err := c.Advance(context.Background())

			require.NoError(t, err)
			assert.Equal(t, before, out.Moved, "%s step %d", name, step)
			if before {
				assert.Equal(t, step+1, c.Step())
			} else {
				assert.Equal(t, step, c.Step())
			}
		}
	}
}

func TestController_Retreat(t *testing.T) {
	c := wizard.NewController(standardProfile(t), completeDraft(t), 3, okSubmitter(), nil)

	assert.True(t, c.Retreat())
	assert.True(t, c.Retreat())
	assert.Equal(t, 1, c.Step())
	assert.False(t, c.Retreat(), "no-op at the first step")
	assert.Equal(t, 1, c.Step())
}

func TestController_RetreatIgnoresGates(t *testing.T) {
	c := wizard.NewController(standardProfile(t), domain.NewTripDraft("USD"), 4, okSubmitter(), nil)
	require.False(t, c.CanProceed())

	assert.True(t, c.Retreat())
	assert.Equal(t, 3, c.Step())
}

func TestController_JumpTo(t *testing.T) {
	c := wizard.NewController(standardProfile(t), completeDraft(t), 4, okSubmitter(), nil)

	require.NoError(t, c.JumpTo(2))
	assert.Equal(t, 2, c.Step())

	err := c.JumpTo(3)
	assert.ErrorIs(t, err, domain.ErrStepLocked, "cannot skip past the furthest current step")
	assert.Equal(t, 2, c.Step())

	assert.ErrorIs(t, c.JumpTo(0), domain.ErrValidation)
}

func TestController_AdvanceOnLastStepSubmits(t *testing.T) {
	var got *domain.TripDraft
	s := &mockSubmitter{
		submit: func(_ context.Context, p wizard.Profile, d *domain.TripDraft) (domain.GeneratedTrip, error) {
			got = d
			return domain.GeneratedTrip(`{"title":"Paris"}`), nil
		},
	}
	d := completeDraft(t)
	c := wizard.NewController(standardProfile(t), d, 6, s, nil)

	out, err := c.Advance(context.Background())

	require.NoError(t, err)
	assert.True(t, out.Submitted)
	assert.False(t, out.Moved)
	assert.JSONEq(t, `{"title":"Paris"}`, string(out.Trip))
	assert.Equal(t, 6, c.Step())
	require.NotNil(t, got)
	assert.NotSame(t, d, got, "submitter receives a snapshot")
}

func TestController_SubmissionFailureStaysOnLastStep(t *testing.T) {
	boom := errors.New("generator down")
	s := &mockSubmitter{
		submit: func(context.Context, wizard.Profile, *domain.TripDraft) (domain.GeneratedTrip, error) {
			return nil, boom
		},
	}
	c := wizard.NewController(standardProfile(t), completeDraft(t), 6, s, nil)

	_, err := c.Advance(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 6, c.Step())
	assert.False(t, c.View().Submitting)

	s.submit = func(context.Context, wizard.Profile, *domain.TripDraft) (domain.GeneratedTrip, error) {
		return domain.GeneratedTrip(`{}`), nil
	}
	out, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Submitted, "retry works without re-entering data")
}

func TestController_RejectsSecondSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	s := &mockSubmitter{
		submit: func(context.Context, wizard.Profile, *domain.TripDraft) (domain.GeneratedTrip, error) {
			close(entered)
			<-release
			return domain.GeneratedTrip(`{}`), nil
		},
	}
	c := wizard.NewController(standardProfile(t), completeDraft(t), 6, s, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Advance(context.Background())
		done <- err
	}()
	<-entered

	assert.True(t, c.View().Submitting)
	_, err := c.Advance(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first submission did not finish")
	}
	assert.False(t, c.View().Submitting)
}

func TestController_ViewDerivedValues(t *testing.T) {
	c := wizard.NewController(standardProfile(t), completeDraft(t), 5, okSubmitter(), nil)

	v := c.View()

	assert.Equal(t, 5, v.Step)
	assert.Equal(t, 6, v.StepCount)
	assert.Equal(t, wizard.GateParty, v.Gate)
	assert.True(t, v.CanProceed)
	assert.Equal(t, 8, v.Derived.TripDays)
	require.NotNil(t, v.Derived.PerPerson)
	assert.Equal(t, 2000.0, *v.Derived.PerPerson)

	require.NoError(t, c.Update(func(d *domain.TripDraft) error {
		return d.SetTravelers(domain.Travelers{})
	}))
	v = c.View()
	assert.False(t, v.CanProceed)
	assert.Nil(t, v.Derived.PerPerson)
}

func TestController_ExpressProfile(t *testing.T) {
	ps, err := wizard.LoadProfiles("")
	require.NoError(t, err)
	express, err := ps.Get("express")
	require.NoError(t, err)

	d := completeDraft(t)
	d.PassportCountries = nil // express has no passport step
	c := wizard.NewController(express, d, 1, okSubmitter(), nil)

	for i := 0; i < 3; i++ {
		out, err := c.Advance(context.Background())
		require.NoError(t, err)
		require.True(t, out.Moved)
	}
	assert.Equal(t, 4, c.Step())
	out, err := c.Advance(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Submitted)
}
