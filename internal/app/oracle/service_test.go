package oracle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/pill-oracle/internal/adapters/llm"
	"github.com/PabloGalante/pill-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/pill-oracle/internal/app/fortune"
	"github.com/PabloGalante/pill-oracle/internal/app/oracle"
	"github.com/PabloGalante/pill-oracle/internal/domain"
)

func newService(ttl time.Duration) *oracle.Service {
	client := llm.NewMockLLM()
	return oracle.NewService(memory.NewSessionStore(), func(domain.SessionID) domain.FortuneMachine {
		return fortune.New(client, fortune.WithRevealDelay(0))
	}, ttl)
}

func TestStartSessionSelectAndReset(t *testing.T) {
	ctx := context.Background()
	svc := newService(time.Minute)

	out, err := svc.StartSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, out.Session.ID)
	require.Equal(t, domain.PhaseIdle, out.Session.Machine.State().Phase())

	sel, err := svc.SelectTheme(ctx, oracle.SelectThemeInput{SessionID: out.Session.ID, Theme: domain.ThemeTruth})
	require.NoError(t, err)
	require.True(t, sel.Accepted)
	require.Equal(t, domain.ThemeTruth, sel.State.SelectedTheme)

	sel.Session.Machine.(*fortune.Controller).Wait()

	got, err := svc.GetSession(ctx, out.Session.ID)
	require.NoError(t, err)
	state := got.Machine.State()
	require.True(t, state.IsRevealed)
	require.Equal(t, "The veil is thinner than you think. Look once more and see.", state.FortuneText)

	again, err := svc.SelectTheme(ctx, oracle.SelectThemeInput{SessionID: out.Session.ID, Theme: domain.ThemeComfort})
	require.NoError(t, err)
	require.False(t, again.Accepted)

	reset, err := svc.Reset(ctx, out.Session.ID)
	require.NoError(t, err)
	require.True(t, reset.Accepted)
	require.Equal(t, domain.SessionState{}, reset.State)
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	svc := newService(time.Minute)

	_, err := svc.SelectTheme(ctx, oracle.SelectThemeInput{SessionID: "nope", Theme: domain.ThemeTruth})
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Reset(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.ErrorIs(t, svc.EndSession(ctx, "nope"), domain.ErrSessionNotFound)
}

func TestSelectInvalidTheme(t *testing.T) {
	ctx := context.Background()
	svc := newService(time.Minute)

	out, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.SelectTheme(ctx, oracle.SelectThemeInput{SessionID: out.Session.ID, Theme: "green"})
	require.ErrorIs(t, err, domain.ErrInvalidTheme)
}

// busyMachine is a FortuneMachine stuck mid-request.
type busyMachine struct{}

func (busyMachine) SelectTheme(domain.Theme) bool { return false }
func (busyMachine) Reset() bool                   { return false }
func (busyMachine) Busy() bool                    { return true }
func (busyMachine) State() domain.SessionState {
	return domain.SessionState{SelectedTheme: domain.ThemeTruth, IsLoading: true}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	client := llm.NewMockLLM()

	busy := false
	svc := oracle.NewService(store, func(domain.SessionID) domain.FortuneMachine {
		if busy {
			return busyMachine{}
		}
		return fortune.New(client)
	}, time.Minute)

	idle, err := svc.StartSession(ctx)
	require.NoError(t, err)
	busy = true
	stuck, err := svc.StartSession(ctx)
	require.NoError(t, err)

	removed, err := svc.Sweep(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, removed)

	removed, err = svc.Sweep(ctx, time.Now().Add(2*time.Minute))
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = svc.GetSession(ctx, idle.Session.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.GetSession(ctx, stuck.Session.ID)
	require.NoError(t, err)
}

func TestSweepDisabled(t *testing.T) {
	ctx := context.Background()
	svc := newService(0)

	_, err := svc.StartSession(ctx)
	require.NoError(t, err)

	removed, err := svc.Sweep(ctx, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, removed)
}
