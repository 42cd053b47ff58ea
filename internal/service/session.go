// Package service contains the wizard's application logic: reference data
// caching and the lifecycle of wizard sessions. Services depend on repo and
// client interfaces, never on SQL or HTTP details.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/trip-wizard/internal/autocomplete"
	"github.com/pkordes/trip-wizard/internal/domain"
	"github.com/pkordes/trip-wizard/internal/repo"
	"github.com/pkordes/trip-wizard/internal/wizard"
)

// Autocomplete field names. Destination fields are numbered from 0.
const (
	DepartureField         = "departure"
	destinationFieldPrefix = "destination-"
)

// DestinationField returns the field name of destination i.
func DestinationField(i int) string {
	return destinationFieldPrefix + strconv.Itoa(i)
}

// SessionConfig holds the defaults applied to new sessions.
type SessionConfig struct {
	DefaultProfile  string
	DefaultCurrency string
	Autocomplete    autocomplete.Options

	// IdleTTL is how long a session may go untouched before Sweep releases
	// it. Zero disables sweeping.
	IdleTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// SessionView is what clients see of a session.
type SessionView struct {
	ID uuid.UUID `json:"id"`
	wizard.View
	Fields map[string]autocomplete.State `json:"fields"`
}

// AdvanceResult is the answer to an advance request. Session is nil once the
// trip has been generated, because the session no longer exists.
type AdvanceResult struct {
	Moved     bool                 `json:"moved"`
	Submitted bool                 `json:"submitted"`
	Trip      domain.GeneratedTrip `json:"trip,omitempty"`
	Session   *SessionView         `json:"session,omitempty"`
}

// CustomerPatch answers step one.
type CustomerPatch struct {
	Type     domain.CustomerType
	Bookings domain.ExistingBookings
}

// DraftPatch carries scalar edits. Nil fields are left untouched.
type DraftPatch struct {
	Customer         *CustomerPatch
	ResidenceCountry *string
	StartDate        *time.Time
	EndDate          *time.Time
	Travelers        *domain.Travelers
	Budget           *float64
	Currency         *string
	Food             *string
	Accommodation    *string
	CabinClass       *string
	InsuranceWanted  *bool
}

// SessionService owns the live wizard sessions of this process. Each mutation
// is persisted through the repo so a session survives a restart; autocomplete
// state does not.
type SessionService struct {
	repo      repo.SessionRepo
	profiles  wizard.Profiles
	submitter wizard.Submitter
	cities    autocomplete.Lookup
	cfg       SessionConfig
	validate  *validator.Validate
	log       *slog.Logger

	loads singleflight.Group

	mu   sync.Mutex
	live map[uuid.UUID]*liveSession
}

type liveSession struct {
	id   uuid.UUID
	ctrl *wizard.Controller

	// touched is guarded by SessionService.mu.
	touched time.Time

	// edit serializes changes that touch both a field and its draft place.
	edit sync.Mutex

	mu     sync.Mutex
	fields map[string]*autocomplete.Field
}

// NewSessionService constructs a SessionService.
func NewSessionService(
	r repo.SessionRepo,
	profiles wizard.Profiles,
	submitter wizard.Submitter,
	cities autocomplete.Lookup,
	cfg SessionConfig,
	log *slog.Logger,
) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = wizard.DefaultProfile
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = domain.DefaultCurrency
	}
	if cfg.Autocomplete.Logger == nil {
		cfg.Autocomplete.Logger = log
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionService{
		repo:      r,
		profiles:  profiles,
		submitter: submitter,
		cities:    cities,
		cfg:       cfg,
		validate:  validator.New(),
		log:       log,
		live:      make(map[uuid.UUID]*liveSession),
	}
}

// Create starts a session on step 1. Empty profile and currency select the
// configured defaults.
func (s *SessionService) Create(ctx context.Context, profile, currency string) (SessionView, error) {
	if profile == "" {
		profile = s.cfg.DefaultProfile
	}
	p, err := s.profiles.Get(profile)
	if err != nil {
		return SessionView{}, fmt.Errorf("service.SessionService.Create: %w", err)
	}
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	currency = strings.ToUpper(currency)
	if err := s.checkCurrency(currency); err != nil {
		return SessionView{}, fmt.Errorf("service.SessionService.Create: %w", err)
	}

	ls := s.start(uuid.New(), p, domain.NewTripDraft(currency), 1)
	if err := s.persist(ctx, ls); err != nil {
		s.drop(ls)
		return SessionView{}, fmt.Errorf("service.SessionService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "wizard session started", "session_id", ls.id, "profile", p.Name)
	return ls.view(), nil
}

// Get returns the session, restoring it from the repo when it is not live.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (SessionView, error) {
	ls, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, fmt.Errorf("service.SessionService.Get: %w", err)
	}
	return ls.view(), nil
}

// Delete abandons the session.
func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	ls := s.live[id]
	s.mu.Unlock()
	if ls != nil {
		s.drop(ls)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if ls != nil && errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.SessionService.Delete: %w", err)
	}
	return nil
}

// UpdateDraft applies patch atomically: either every field is applied or none.
func (s *SessionService) UpdateDraft(ctx context.Context, id uuid.UUID, patch DraftPatch) (SessionView, error) {
	return s.mutate(ctx, id, "UpdateDraft", func(ls *liveSession) error {
		p := ls.ctrl.Profile()
		if patch.Currency != nil {
			if err := s.checkCurrency(strings.ToUpper(*patch.Currency)); err != nil {
				return err
			}
		}
		return ls.ctrl.Update(func(d *domain.TripDraft) error {
			next := d.Clone()
			if err := applyPatch(p, next, patch); err != nil {
				return err
			}
			*d = *next
			return nil
		})
	})
}

// TogglePassport adds or removes a passport country.
func (s *SessionService) TogglePassport(ctx context.Context, id uuid.UUID, code string) (SessionView, error) {
	return s.mutate(ctx, id, "TogglePassport", func(ls *liveSession) error {
		code = strings.ToUpper(strings.TrimSpace(code))
		if err := s.validate.Var(code, "required,alpha,len=2"); err != nil {
			return fmt.Errorf("%w: passport country %q must be a two-letter code", domain.ErrValidation, code)
		}
		return ls.ctrl.Update(func(d *domain.TripDraft) error {
			d.TogglePassport(code)
			return nil
		})
	})
}

// ToggleInterest adds or removes an interest. Adding beyond the profile's cap
// is ignored.
func (s *SessionService) ToggleInterest(ctx context.Context, id uuid.UUID, name string) (SessionView, error) {
	return s.mutate(ctx, id, "ToggleInterest", func(ls *liveSession) error {
		p := ls.ctrl.Profile()
		if !wizard.Allows(p.Options.Interests, name) {
			return fmt.Errorf("%w: interest %q is not offered", domain.ErrValidation, name)
		}
		return ls.ctrl.Update(func(d *domain.TripDraft) error {
			d.ToggleInterest(name, p.InterestLimit)
			return nil
		})
	})
}

// ToggleFitnessInterest adds or removes a fitness interest.
func (s *SessionService) ToggleFitnessInterest(ctx context.Context, id uuid.UUID, name string) (SessionView, error) {
	return s.mutate(ctx, id, "ToggleFitnessInterest", func(ls *liveSession) error {
		if !wizard.Allows(ls.ctrl.Profile().Options.Fitness, name) {
			return fmt.Errorf("%w: fitness interest %q is not offered", domain.ErrValidation, name)
		}
		return ls.ctrl.Update(func(d *domain.TripDraft) error {
			d.ToggleFitnessInterest(name)
			return nil
		})
	})
}

// AddDestination appends an empty destination with its own autocomplete
// field. It is a no-op once the profile's limit is reached.
func (s *SessionService) AddDestination(ctx context.Context, id uuid.UUID) (SessionView, error) {
	return s.mutate(ctx, id, "AddDestination", func(ls *liveSession) error {
		limit := destinationLimit(ls.ctrl.Profile())
		var added bool
		var n int
		_ = ls.ctrl.Update(func(d *domain.TripDraft) error {
			added = d.AddDestination(limit)
			n = len(d.Destinations)
			return nil
		})
		if added {
			ls.mu.Lock()
			ls.fields[DestinationField(n-1)] = s.newField(ls.id, DestinationField(n-1))
			ls.mu.Unlock()
		}
		return nil
	})
}

// RemoveDestination removes destination i. The last remaining destination
// cannot be removed. Destination fields are renumbered to match.
func (s *SessionService) RemoveDestination(ctx context.Context, id uuid.UUID, i int) (SessionView, error) {
	return s.mutate(ctx, id, "RemoveDestination", func(ls *liveSession) error {
		ls.edit.Lock()
		defer ls.edit.Unlock()
		var labels []string
		err := ls.ctrl.Update(func(d *domain.TripDraft) error {
			if !d.RemoveDestination(i) {
				return fmt.Errorf("%w: cannot remove destination %d", domain.ErrValidation, i)
			}
			for _, p := range d.Destinations {
				labels = append(labels, p.Label())
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.rekeyDestinations(ls, labels)
		return nil
	})
}

// ToggleDepartureAirport selects or deselects an airport of the accepted
// departure city.
func (s *SessionService) ToggleDepartureAirport(ctx context.Context, id uuid.UUID, code string) (SessionView, error) {
	return s.mutate(ctx, id, "ToggleDepartureAirport", func(ls *liveSession) error {
		return ls.ctrl.Update(func(d *domain.TripDraft) error {
			return d.Departure.ToggleAirport(strings.ToUpper(code))
		})
	})
}

// Field returns the state of an autocomplete field.
func (s *SessionService) Field(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error) {
	ls, err := s.session(ctx, id)
	if err != nil {
		return autocomplete.State{}, fmt.Errorf("service.SessionService.Field: %w", err)
	}
	f, err := ls.field(name)
	if err != nil {
		return autocomplete.State{}, fmt.Errorf("service.SessionService.Field: %w", err)
	}
	return f.State(), nil
}

// FieldInput records a keystroke: the draft's place takes the raw text and
// the field schedules a debounced lookup.
func (s *SessionService) FieldInput(ctx context.Context, id uuid.UUID, name, text string) (autocomplete.State, error) {
	return s.fieldOp(ctx, id, name, "FieldInput", true, func(ls *liveSession, f *autocomplete.Field) error {
		ls.edit.Lock()
		defer ls.edit.Unlock()
		err := ls.ctrl.Update(func(d *domain.TripDraft) error {
			p, err := place(d, name)
			if err != nil {
				return err
			}
			p.SetText(text)
			return nil
		})
		if err != nil {
			return err
		}
		f.OnType(text)
		return nil
	})
}

// FieldFocus focuses a field, re-running its query.
func (s *SessionService) FieldFocus(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error) {
	return s.fieldOp(ctx, id, name, "FieldFocus", false, func(_ *liveSession, f *autocomplete.Field) error {
		f.Focus()
		return nil
	})
}

// FieldBlur starts the field's blur grace period.
func (s *SessionService) FieldBlur(ctx context.Context, id uuid.UUID, name string) (autocomplete.State, error) {
	return s.fieldOp(ctx, id, name, "FieldBlur", false, func(_ *liveSession, f *autocomplete.Field) error {
		f.Blur()
		return nil
	})
}

// FieldSelect accepts suggestion index of a field. The place takes the
// suggestion's label; for the departure every airport starts selected.
func (s *SessionService) FieldSelect(ctx context.Context, id uuid.UUID, name string, index int) (autocomplete.State, error) {
	return s.fieldOp(ctx, id, name, "FieldSelect", true, func(ls *liveSession, f *autocomplete.Field) error {
		ls.edit.Lock()
		defer ls.edit.Unlock()
		sugg, err := f.Select(index)
		if err != nil {
			return err
		}
		return ls.ctrl.Update(func(d *domain.TripDraft) error {
			p, err := place(d, name)
			if err != nil {
				return err
			}
			p.Accept(sugg)
			return nil
		})
	})
}

// Advance moves the session forward or, on the last step, generates the
// trip. A generated trip ends the session.
func (s *SessionService) Advance(ctx context.Context, id uuid.UUID) (AdvanceResult, error) {
	ls, err := s.session(ctx, id)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("service.SessionService.Advance: %w", err)
	}
	out, err := ls.ctrl.Advance(ctx)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("service.SessionService.Advance: %w", err)
	}
	if out.Submitted {
		s.drop(ls)
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "could not delete finished session", "session_id", id, "error", err)
		}
		s.log.InfoContext(ctx, "wizard session completed", "session_id", id)
		return AdvanceResult{Submitted: true, Trip: out.Trip}, nil
	}
	if out.Moved {
		if err := s.persist(ctx, ls); err != nil {
			return AdvanceResult{}, fmt.Errorf("service.SessionService.Advance: %w", err)
		}
	}
	v := ls.view()
	return AdvanceResult{Moved: out.Moved, Session: &v}, nil
}

// Retreat moves back one step; it is a no-op on step 1.
func (s *SessionService) Retreat(ctx context.Context, id uuid.UUID) (SessionView, error) {
	return s.mutate(ctx, id, "Retreat", func(ls *liveSession) error {
		ls.ctrl.Retreat()
		return nil
	})
}

// JumpTo revisits an already reached step.
func (s *SessionService) JumpTo(ctx context.Context, id uuid.UUID, step int) (SessionView, error) {
	return s.mutate(ctx, id, "JumpTo", func(ls *liveSession) error {
		return ls.ctrl.JumpTo(step)
	})
}

// Sweep releases sessions untouched for longer than the idle TTL: idle live
// sessions are dropped and stored sessions last saved before the cutoff are
// deleted. A live session that was only read since then stays live and is
// stored again on its next change.
func (s *SessionService) Sweep(ctx context.Context) error {
	if s.cfg.IdleTTL <= 0 {
		return nil
	}
	cutoff := s.cfg.Now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	var idle []*liveSession
	for _, ls := range s.live {
		if ls.touched.Before(cutoff) {
			idle = append(idle, ls)
		}
	}
	s.mu.Unlock()
	for _, ls := range idle {
		s.drop(ls)
	}

	n, err := s.repo.DeleteIdle(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("service.SessionService.Sweep: %w", err)
	}
	if len(idle) > 0 || n > 0 {
		s.log.InfoContext(ctx, "idle wizard sessions released", "live", len(idle), "stored", n)
	}
	return nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.log.WarnContext(ctx, "idle session sweep failed", "error", err)
			}
		}
	}
}

// Close stops every live session's autocomplete fields. Stored sessions are kept.
func (s *SessionService) Close() {
	s.mu.Lock()
	sessions := make([]*liveSession, 0, len(s.live))
	for _, ls := range s.live {
		sessions = append(sessions, ls)
	}
	s.live = make(map[uuid.UUID]*liveSession)
	s.mu.Unlock()

	for _, ls := range sessions {
		ls.closeFields()
	}
}

// ---- internals -------------------------------------------------------------

func (s *SessionService) mutate(ctx context.Context, id uuid.UUID, op string, fn func(ls *liveSession) error) (SessionView, error) {
	ls, err := s.session(ctx, id)
	if err != nil {
		return SessionView{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	if err := fn(ls); err != nil {
		return SessionView{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	if err := s.persist(ctx, ls); err != nil {
		return SessionView{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	return ls.view(), nil
}

func (s *SessionService) fieldOp(ctx context.Context, id uuid.UUID, name, op string, persist bool, fn func(ls *liveSession, f *autocomplete.Field) error) (autocomplete.State, error) {
	ls, err := s.session(ctx, id)
	if err != nil {
		return autocomplete.State{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	f, err := ls.field(name)
	if err != nil {
		return autocomplete.State{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	if err := fn(ls, f); err != nil {
		return autocomplete.State{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
	}
	if persist {
		if err := s.persist(ctx, ls); err != nil {
			return autocomplete.State{}, fmt.Errorf("service.SessionService.%s: %w", op, err)
		}
	}
	return f.State(), nil
}

// session returns the live session for id, restoring it from the repo on a
// miss. Concurrent restores of the same id share one load.
func (s *SessionService) session(ctx context.Context, id uuid.UUID) (*liveSession, error) {
	if ls, ok := s.touch(id); ok {
		return ls, nil
	}

	v, err, _ := s.loads.Do(id.String(), func() (any, error) {
		if ls, ok := s.touch(id); ok {
			return ls, nil
		}
		stored, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		p, err := s.profiles.Get(stored.Profile)
		if err != nil {
			return nil, fmt.Errorf("restore session %s: %w", id, err)
		}
		s.log.DebugContext(ctx, "wizard session restored", "session_id", id, "step", stored.Step)
		return s.start(id, p, &stored.Draft, stored.Step), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*liveSession), nil
}

// start builds a live session and registers it.
func (s *SessionService) start(id uuid.UUID, p wizard.Profile, d *domain.TripDraft, step int) *liveSession {
	ls := &liveSession{
		id:     id,
		ctrl:   wizard.NewController(p, d, step, s.submitter, s.log.With("session_id", id)),
		fields: make(map[string]*autocomplete.Field, 1+len(d.Destinations)),
	}
	dep := s.newField(id, DepartureField)
	dep.Reset(d.Departure.Label())
	ls.fields[DepartureField] = dep
	for i, dest := range d.Destinations {
		f := s.newField(id, DestinationField(i))
		f.Reset(dest.Label())
		ls.fields[DestinationField(i)] = f
	}

	s.mu.Lock()
	ls.touched = s.cfg.Now()
	s.live[id] = ls
	s.mu.Unlock()
	return ls
}

// touch returns the live session for id and marks it used.
func (s *SessionService) touch(id uuid.UUID) (*liveSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.live[id]
	if ok {
		ls.touched = s.cfg.Now()
	}
	return ls, ok
}

// drop unregisters ls and stops its fields.
func (s *SessionService) drop(ls *liveSession) {
	s.mu.Lock()
	if s.live[ls.id] == ls {
		delete(s.live, ls.id)
	}
	s.mu.Unlock()
	ls.closeFields()
}

func (s *SessionService) persist(ctx context.Context, ls *liveSession) error {
	step, d := ls.ctrl.Snapshot()
	_, err := s.repo.Save(ctx, domain.Session{
		ID:      ls.id,
		Profile: ls.ctrl.Profile().Name,
		Step:    step,
		Draft:   *d,
	})
	return err
}

func (s *SessionService) newField(id uuid.UUID, name string) *autocomplete.Field {
	opts := s.cfg.Autocomplete
	opts.Logger = opts.Logger.With("session_id", id)
	return autocomplete.New(name, s.cities, opts)
}

func (s *SessionService) rekeyDestinations(ls *liveSession, labels []string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for name, f := range ls.fields {
		if strings.HasPrefix(name, destinationFieldPrefix) {
			f.Close()
			delete(ls.fields, name)
		}
	}
	for i, label := range labels {
		f := s.newField(ls.id, DestinationField(i))
		f.Reset(label)
		ls.fields[DestinationField(i)] = f
	}
}

func (s *SessionService) checkCurrency(code string) error {
	if err := s.validate.Var(code, "required,iso4217"); err != nil {
		return fmt.Errorf("%w: unknown currency %q", domain.ErrValidation, code)
	}
	return nil
}

func (ls *liveSession) field(name string) (*autocomplete.Field, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	f, ok := ls.fields[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrFieldNotFound)
	}
	return f, nil
}

func (ls *liveSession) view() SessionView {
	v := SessionView{ID: ls.id, View: ls.ctrl.View()}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	v.Fields = make(map[string]autocomplete.State, len(ls.fields))
	for name, f := range ls.fields {
		v.Fields[name] = f.State()
	}
	return v
}

func (ls *liveSession) closeFields() {
	ls.mu.Lock()
	fields := make([]*autocomplete.Field, 0, len(ls.fields))
	for _, f := range ls.fields {
		fields = append(fields, f)
	}
	ls.mu.Unlock()
	for _, f := range fields {
		f.Close()
	}
}

// place resolves a field name to the draft place it edits.
func place(d *domain.TripDraft, name string) (*domain.Place, error) {
	if name == DepartureField {
		return &d.Departure, nil
	}
	if rest, ok := strings.CutPrefix(name, destinationFieldPrefix); ok {
		i, err := strconv.Atoi(rest)
		if err == nil && i >= 0 && i < len(d.Destinations) {
			return &d.Destinations[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, domain.ErrFieldNotFound)
}

func destinationLimit(p wizard.Profile) int {
	if p.DestinationLimit > 0 {
		return p.DestinationLimit
	}
	return domain.MaxDestinations
}

func applyPatch(p wizard.Profile, d *domain.TripDraft, patch DraftPatch) error {
	if c := patch.Customer; c != nil {
		customer, err := domain.NewCustomer(c.Type, c.Bookings)
		if err != nil {
			return err
		}
		d.Customer = customer
	}
	if patch.ResidenceCountry != nil {
		d.ResidenceCountry = strings.ToUpper(strings.TrimSpace(*patch.ResidenceCountry))
	}
	if patch.StartDate != nil || patch.EndDate != nil {
		start, end := d.StartDate, d.EndDate
		if patch.StartDate != nil {
			start = patch.StartDate
		}
		if patch.EndDate != nil {
			end = patch.EndDate
		}
		if err := d.SetDates(start, end); err != nil {
			return err
		}
	}
	if patch.Travelers != nil {
		if err := d.SetTravelers(*patch.Travelers); err != nil {
			return err
		}
	}
	if patch.Budget != nil {
		if err := d.SetBudget(*patch.Budget); err != nil {
			return err
		}
	}
	if patch.Currency != nil {
		d.Currency = strings.ToUpper(*patch.Currency)
	}
	choices := []struct {
		field   string
		value   *string
		catalog []string
		dst     *string
	}{
		{"food", patch.Food, p.Options.Food, &d.Preferences.Food},
		{"accommodation", patch.Accommodation, p.Options.Accommodation, &d.Preferences.Accommodation},
		{"cabin_class", patch.CabinClass, p.Options.CabinClasses, &d.Preferences.CabinClass},
	}
	for _, c := range choices {
		if c.value == nil {
			continue
		}
		if !wizard.Allows(c.catalog, *c.value) {
			return fmt.Errorf("%w: %s %q is not offered", domain.ErrValidation, c.field, *c.value)
		}
		*c.dst = *c.value
	}
	if patch.InsuranceWanted != nil {
		d.Preferences.InsuranceWanted = *patch.InsuranceWanted
	}
	return nil
}
