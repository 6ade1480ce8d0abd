package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/pill-oracle/internal/adapters/llm"
	"github.com/PabloGalante/pill-oracle/internal/config"
)

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Backend = config.BackendMock
	client, closeFn, err := llm.NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	require.IsType(t, &llm.MockLLM{}, client)
	require.NoError(t, closeFn())

	cfg = config.Default()
	cfg.APIKey = "sk-test"
	client, closeFn, err = llm.NewFromConfig(ctx, cfg)
	require.NoError(t, err)
	require.IsType(t, &llm.AgentClient{}, client)
	require.NoError(t, closeFn())

	cfg = config.Default()
	cfg.APIKey = ""
	_, closeFn, err = llm.NewFromConfig(ctx, cfg)
	require.Error(t, err)
	require.NotNil(t, closeFn)

	cfg.Backend = "smoke-signals"
	_, _, err = llm.NewFromConfig(ctx, cfg)
	require.Error(t, err)
}
