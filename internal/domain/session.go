package domain

import "errors"

var ErrSessionNotFound = errors.New("session not found")

// SessionState is the single source of truth a rendering surface reflects.
// The zero value is the Idle state.
type SessionState struct {
	SelectedTheme Theme
	FortuneText   string
	IsLoading     bool
	IsRevealed    bool
}

// Phase is a derived, view-friendly name for where a session is in the
// Idle -> Loading -> Revealed cycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseSettling Phase = "settling" // content is final, reveal pending
	PhaseRevealed Phase = "revealed"
)

// Phase derives the phase from the state fields alone.
func (s SessionState) Phase() Phase {
	switch {
	case s.IsRevealed:
		return PhaseRevealed
	case s.IsLoading:
		return PhaseLoading
	case s.FortuneText != "":
		return PhaseSettling
	default:
		return PhaseIdle
	}
}

// FortuneMachine is what a surface needs from a fortune session.
type FortuneMachine interface {
	SelectTheme(theme Theme) bool
	Reset() bool
	State() SessionState
	Busy() bool
}

// Session represents a fortune session hosted on behalf of a remote surface
// (a browser tab, for instance).
type Session struct {
	ID        SessionID
	CreatedAt Timestamp
	UpdatedAt Timestamp

	Machine FortuneMachine
}
