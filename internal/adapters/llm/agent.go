package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/PabloGalante/pill-oracle/internal/domain"
	"github.com/PabloGalante/pill-oracle/internal/observability"
)

// AgentClient talks to a hosted agent's chat inference endpoint.
type AgentClient struct {
	http     *resty.Client
	endpoint string
}

type AgentConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration // 0 leaves the deadline to the caller's context
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func NewAgentClient(cfg AgentConfig) (*AgentClient, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, errors.New("agent endpoint and api key are required")
	}

	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}

	return &AgentClient{
		http:     c,
		endpoint: cfg.Endpoint,
	}, nil
}

// Chat implements domain.InferenceClient. The reply body is returned as is;
// every failure wraps domain.ErrTransport.
func (a *AgentClient) Chat(ctx context.Context, req domain.InferenceRequest) (string, error) {
	log := observability.LoggerFromContext(ctx).With(
		"agent_id", req.AgentID,
		"session_id", req.SessionID,
	)
	start := time.Now()

	res, err := a.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			UserID:    string(req.UserID),
			AgentID:   req.AgentID,
			SessionID: string(req.SessionID),
			Message:   req.Message,
		}).
		Post(a.endpoint)
	if err != nil {
		log.Warn("agent request failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	body := res.String()
	if res.IsError() {
		log.Warn("agent replied with error status", "status", res.StatusCode(), "body_len", len(body))
		return "", fmt.Errorf("%w: status %d", domain.ErrTransport, res.StatusCode())
	}

	log.Debug("agent replied", "status", res.StatusCode(), "body_len", len(body), "elapsed_ms", time.Since(start).Milliseconds())
	return body, nil
}

// Close releases the underlying HTTP client.
func (a *AgentClient) Close() error {
	return a.http.Close()
}
