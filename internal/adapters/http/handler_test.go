package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/pill-oracle/internal/adapters/http"
	"github.com/PabloGalante/pill-oracle/internal/adapters/llm"
	"github.com/PabloGalante/pill-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/pill-oracle/internal/app/fortune"
	"github.com/PabloGalante/pill-oracle/internal/app/oracle"
	"github.com/PabloGalante/pill-oracle/internal/domain"
)

type stateBody struct {
	SelectedPill string `json:"selected_pill"`
	Theme        string `json:"theme"`
	Fortune      string `json:"fortune"`
	IsLoading    bool   `json:"is_loading"`
	IsRevealed   bool   `json:"is_revealed"`
	Phase        string `json:"phase"`
}

type sessionBody struct {
	ID    string    `json:"id"`
	State stateBody `json:"state"`
}

type actionBody struct {
	Accepted bool        `json:"accepted"`
	Session  sessionBody `json:"session"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	client := llm.NewMockLLM()
	svc := oracle.NewService(memory.NewSessionStore(), func(domain.SessionID) domain.FortuneMachine {
		return fortune.New(client, fortune.WithRevealDelay(10*time.Millisecond))
	}, time.Minute)

	return httpadapter.NewServer(svc)
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestFortuneFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Session sessionBody `json:"session"`
	}](t, w)
	id := created.Session.ID
	require.NotEmpty(t, id)
	require.Equal(t, "idle", created.Session.State.Phase)

	w = do(t, srv, http.MethodPost, "/sessions/"+id+"/choice", `{"pill":"blue"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	choice := decode[actionBody](t, w)
	require.True(t, choice.Accepted)
	require.Equal(t, "blue", choice.Session.State.SelectedPill)
	require.Equal(t, "comfort", choice.Session.State.Theme)

	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)
		var body sessionBody
		return json.Unmarshal(w.Body.Bytes(), &body) == nil && body.State.IsRevealed
	}, 2*time.Second, 5*time.Millisecond)

	w = do(t, srv, http.MethodGet, "/sessions/"+id, "")
	got := decode[sessionBody](t, w)
	require.Equal(t, "revealed", got.State.Phase)
	require.Equal(t, "Rest easy tonight. Everything you need is already here with you.", got.State.Fortune)

	w = do(t, srv, http.MethodPost, "/sessions/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	reset := decode[actionBody](t, w)
	require.True(t, reset.Accepted)
	require.Equal(t, stateBody{Phase: "idle"}, reset.Session.State)

	w = do(t, srv, http.MethodDelete, "/sessions/"+id, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, srv, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChoiceValidation(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/sessions", "")
	id := decode[struct {
		Session sessionBody `json:"session"`
	}](t, w).Session.ID

	w = do(t, srv, http.MethodPost, "/sessions/"+id+"/choice", `{"pill":"green"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/sessions/"+id+"/choice", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/sessions/missing/choice", `{"pill":"red"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/sessions/"+id+"/choice", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = do(t, srv, http.MethodPost, "/sessions/"+id+"/teleport", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodOptions, "/sessions", "")

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
