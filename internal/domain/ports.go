package domain

import (
	"context"
	"errors"
)

// ErrTransport marks a failed call to the inference collaborator: connectivity,
// timeouts and non-2xx replies all end up here.
var ErrTransport = errors.New("transport failure")

// InferenceRequest is the request shape the agent endpoint expects.
type InferenceRequest struct {
	UserID    UserID
	AgentID   string
	SessionID SessionID
	Message   string
}

// InferenceClient defines how the core talks to the remote text generator.
// It returns the raw reply text; no structure is assumed.
type InferenceClient interface {
	Chat(ctx context.Context, req InferenceRequest) (string, error)
}

// SessionStore keeps the sessions hosted by the oracle service.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	DeleteSession(id SessionID) error
	ListSessions(limit int) ([]*Session, error)
}
