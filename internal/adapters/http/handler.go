package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/pill-oracle/internal/app/oracle"
	"github.com/PabloGalante/pill-oracle/internal/domain"
	"github.com/PabloGalante/pill-oracle/internal/observability"
)

type Server struct {
	svc *oracle.Service
}

func NewServer(svc *oracle.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → create session (POST)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}        → GET: state, DELETE: end session
	// /sessions/{id}/choice → POST: pick a pill
	// /sessions/{id}/reset  → POST: try again
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type stateResponse struct {
	SelectedPill string `json:"selected_pill,omitempty"`
	Theme        string `json:"theme,omitempty"`
	Fortune      string `json:"fortune"`
	IsLoading    bool   `json:"is_loading"`
	IsRevealed   bool   `json:"is_revealed"`
	Phase        string `json:"phase"`
}

type sessionResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	State     stateResponse `json:"state"`
}

type createSessionResponse struct {
	Session sessionResponse `json:"session"`
}

type choiceRequest struct {
	Pill string `json:"pill"`
}

type actionResponse struct {
	Accepted bool            `json:"accepted"`
	Session  sessionResponse `json:"session"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}, /sessions/{id}/choice or /sessions/{id}/reset
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		case http.MethodDelete:
			s.handleEndSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		switch parts[1] {
		case "choice":
			s.handleChoice(w, r, id)
			return
		case "reset":
			s.handleReset(w, r, id)
			return
		}
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.StartSession(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session: toSessionResponse(out.Session, out.Session.Machine.State()),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, err := s.svc.GetSession(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session, session.Machine.State()))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	if err := s.svc.EndSession(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	var req choiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	theme, err := domain.ParseTheme(req.Pill)
	if err != nil {
		badRequest(w, `pill must be "red" or "blue"`)
		return
	}

	out, err := s.svc.SelectTheme(r.Context(), oracle.SelectThemeInput{
		SessionID: id,
		Theme:     theme,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, actionResponse{
		Accepted: out.Accepted,
		Session:  toSessionResponse(out.Session, out.State),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	out, err := s.svc.Reset(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, actionResponse{
		Accepted: out.Accepted,
		Session:  toSessionResponse(out.Session, out.State),
	})
}

// ─────────────────────────────────────────────
// Conversion Helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session, st domain.SessionState) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		State:     toStateResponse(st),
	}
}

func toStateResponse(st domain.SessionState) stateResponse {
	return stateResponse{
		SelectedPill: st.SelectedTheme.Pill(),
		Theme:        string(st.SelectedTheme),
		Fortune:      st.FortuneText,
		IsLoading:    st.IsLoading,
		IsRevealed:   st.IsRevealed,
		Phase:        string(st.Phase()),
	}
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "session not found",
		})
	case errors.Is(err, domain.ErrInvalidTheme):
		badRequest(w, err.Error())
	default:
		observability.LoggerFromContext(r.Context()).Error("request failed", "error", err)
		internalError(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
