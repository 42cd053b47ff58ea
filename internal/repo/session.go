// Package repo contains storage for wizard sessions. The Postgres
// implementation keeps the draft as a JSONB document; the memory
// implementation serves single-instance deployments without a database.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-wizard/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionRepo defines the persistence operations for wizard sessions.
type SessionRepo interface {
	// Save inserts or replaces the session and returns the stored record with
	// created_at and updated_at populated.
	Save(ctx context.Context, s domain.Session) (domain.Session, error)

	// Get returns domain.ErrNotFound if no session with that ID exists.
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)

	// Delete returns domain.ErrNotFound if no session with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteIdle removes every session last saved before the cutoff and
	// returns how many were removed.
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}

type pgSessionRepo struct {
	db db
}

// NewSessionRepo constructs a Postgres SessionRepo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSessionRepo(db db) SessionRepo {
	return &pgSessionRepo{db: db}
}

func (r *pgSessionRepo) Save(ctx context.Context, s domain.Session) (domain.Session, error) {
	const q = `
		INSERT INTO wizard_sessions (id, profile, step, draft)
		VALUES (@id, @profile, @step, @draft)
		ON CONFLICT (id) DO UPDATE
		SET profile    = EXCLUDED.profile,
		    step       = EXCLUDED.step,
		    draft      = EXCLUDED.draft,
		    updated_at = now()
		RETURNING id, profile, step, draft, created_at, updated_at`

	draft, err := json.Marshal(s.Draft)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Save: marshal draft: %w", err)
	}
	args := pgx.NamedArgs{
		"id":      s.ID,
		"profile": s.Profile,
		"step":    s.Step,
		"draft":   draft,
	}

	out, err := scanSession(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Save: %w", err)
	}
	return out, nil
}

func (r *pgSessionRepo) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	const q = `
		SELECT id, profile, step, draft, created_at, updated_at
		FROM wizard_sessions
		WHERE id = @id`

	out, err := scanSession(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.Get: %w", err)
	}
	return out, nil
}

func (r *pgSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM wizard_sessions WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SessionRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgSessionRepo) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	const q = `DELETE FROM wizard_sessions WHERE updated_at < @before`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"before": before})
	if err != nil {
		return 0, fmt.Errorf("repo.SessionRepo.DeleteIdle: %w", err)
	}
	return tag.RowsAffected(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (domain.Session, error) {
	var (
		out   domain.Session
		id    pgtype.UUID
		draft []byte
	)
	if err := s.Scan(&id, &out.Profile, &out.Step, &draft, &out.CreatedAt, &out.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}
	out.ID = uuid.UUID(id.Bytes)
	if err := json.Unmarshal(draft, &out.Draft); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return out, nil
}

// memorySessionRepo keeps sessions in process memory. Drafts are stored in
// their encoded form so callers never share state with the store.
type memorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]storedSession
}

type storedSession struct {
	profile   string
	step      int
	draft     []byte
	createdAt time.Time
	updatedAt time.Time
}

// NewMemorySessionRepo returns a SessionRepo that lives in process memory.
func NewMemorySessionRepo() SessionRepo {
	return &memorySessionRepo{sessions: make(map[uuid.UUID]storedSession)}
}

func (r *memorySessionRepo) Save(_ context.Context, s domain.Session) (domain.Session, error) {
	draft, err := json.Marshal(s.Draft)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.memorySessionRepo.Save: marshal draft: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	st, ok := r.sessions[s.ID]
	if !ok {
		st.createdAt = now
	}
	st.profile, st.step, st.draft, st.updatedAt = s.Profile, s.Step, draft, now
	r.sessions[s.ID] = st
	return st.session(s.ID)
}

func (r *memorySessionRepo) Get(_ context.Context, id uuid.UUID) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, fmt.Errorf("repo.memorySessionRepo.Get: %w", domain.ErrNotFound)
	}
	return st.session(id)
}

func (r *memorySessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("repo.memorySessionRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepo) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, st := range r.sessions {
		if st.updatedAt.Before(before) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (st storedSession) session(id uuid.UUID) (domain.Session, error) {
	out := domain.Session{
		ID:        id,
		Profile:   st.profile,
		Step:      st.step,
		CreatedAt: st.createdAt,
		UpdatedAt: st.updatedAt,
	}
	if err := json.Unmarshal(st.draft, &out.Draft); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return out, nil
}
