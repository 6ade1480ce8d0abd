package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/pill-oracle/internal/config"
	"github.com/PabloGalante/pill-oracle/internal/domain"
)

// NewFromConfig builds the inference client selected by cfg.Backend. The
// returned close func is never nil.
func NewFromConfig(ctx context.Context, cfg *config.Config) (domain.InferenceClient, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMock:
		return NewMockLLM(), noop, nil

	case config.BackendVertex:
		client, err := NewVertexClient(ctx, VertexConfig{
			Project:   cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			ModelName: cfg.ModelName,
		})
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	case config.BackendAgent:
		client, err := NewAgentClient(AgentConfig{
			Endpoint: cfg.AgentEndpoint,
			APIKey:   cfg.APIKey,
			Timeout:  cfg.RequestTimeout,
		})
		if err != nil {
			return nil, noop, err
		}
		return client, client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
