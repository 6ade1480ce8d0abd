package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/pill-oracle/internal/domain"
	"github.com/PabloGalante/pill-oracle/internal/observability"
)

// MachineFactory builds the state machine behind a new session.
type MachineFactory func(id domain.SessionID) domain.FortuneMachine

// Service hosts fortune sessions for remote surfaces, one state machine per
// session handle.
type Service struct {
	sessionStore domain.SessionStore
	newMachine   MachineFactory
	ttl          time.Duration
	now          func() time.Time
}

// NewService creates the service. Sessions idle for longer than ttl are
// removed by Sweep; ttl <= 0 disables eviction.
func NewService(sessionStore domain.SessionStore, newMachine MachineFactory, ttl time.Duration) *Service {
	return &Service{
		sessionStore: sessionStore,
		newMachine:   newMachine,
		ttl:          ttl,
		now:          time.Now,
	}
}

type StartSessionOutput struct {
	Session *domain.Session
}

func (s *Service) StartSession(ctx context.Context) (*StartSessionOutput, error) {
	now := s.now()
	id := domain.SessionID(uuid.NewString())

	log := observability.LoggerFromContext(ctx).With("session_id", id)

	session := &domain.Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Machine:   s.newMachine(id),
	}

	if err := s.sessionStore.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started")

	return &StartSessionOutput{
		Session: session,
	}, nil
}

type SelectThemeInput struct {
	SessionID domain.SessionID
	Theme     domain.Theme
}

// ActionOutput reports whether the state machine accepted an operation and
// the session as it stands right after.
type ActionOutput struct {
	Accepted bool
	Session  *domain.Session
	State    domain.SessionState
}

func (s *Service) SelectTheme(ctx context.Context, in SelectThemeInput) (*ActionOutput, error) {
	if !in.Theme.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTheme, in.Theme)
	}

	session, err := s.touch(in.SessionID)
	if err != nil {
		return nil, err
	}

	accepted := session.Machine.SelectTheme(in.Theme)

	observability.LoggerFromContext(ctx).Info("theme selection",
		"session_id", session.ID,
		"theme", in.Theme,
		"accepted", accepted)

	return &ActionOutput{
		Accepted: accepted,
		Session:  session,
		State:    session.Machine.State(),
	}, nil
}

func (s *Service) Reset(ctx context.Context, id domain.SessionID) (*ActionOutput, error) {
	session, err := s.touch(id)
	if err != nil {
		return nil, err
	}

	accepted := session.Machine.Reset()

	observability.LoggerFromContext(ctx).Info("session reset",
		"session_id", session.ID,
		"accepted", accepted)

	return &ActionOutput{
		Accepted: accepted,
		Session:  session,
		State:    session.Machine.State(),
	}, nil
}

func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	session, err := s.sessionStore.GetSession(id)
	if err != nil {
		observability.LoggerFromContext(ctx).Debug("session lookup failed", "session_id", id, "error", err)
		return nil, err
	}
	return session, nil
}

func (s *Service) EndSession(ctx context.Context, id domain.SessionID) error {
	if err := s.sessionStore.DeleteSession(id); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info("session ended", "session_id", id)
	return nil
}

// Sweep removes sessions idle since before now-ttl and returns how many were
// removed. Sessions with a request sequence still running are kept.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	sessions, err := s.sessionStore.ListSessions(0)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-s.ttl)
	removed := 0
	for _, sess := range sessions {
		if !sess.UpdatedAt.Before(cutoff) || sess.Machine.Busy() {
			continue
		}
		if err := s.sessionStore.DeleteSession(sess.ID); err != nil {
			continue
		}
		removed++
	}

	if removed > 0 {
		observability.LoggerFromContext(ctx).Info("swept idle sessions", "removed", removed, "remaining", len(sessions)-removed)
	}
	return removed, nil
}

func (s *Service) touch(id domain.SessionID) (*domain.Session, error) {
	session, err := s.sessionStore.GetSession(id)
	if err != nil {
		return nil, err
	}

	// stored sessions are never mutated in place
	updated := *session
	updated.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
