package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/pill-oracle/internal/domain"
)

type VertexClient struct {
	client    *genai.Client
	modelName string
}

type VertexConfig struct {
	Project   string
	Location  string
	ModelName string
}

// NewVertexClient creates an InferenceClient based on Vertex AI (Gemini).
func NewVertexClient(ctx context.Context, cfg VertexConfig) (*VertexClient, error) {
	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex project and location must be set")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &VertexClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Chat implements domain.InferenceClient using Vertex AI. The identifiers in
// req have no meaning to Gemini and are dropped.
func (v *VertexClient) Chat(ctx context.Context, req domain.InferenceRequest) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(req.Message, genai.RoleUser),
	}

	temp := float32(0.9)
	outputTokens := int32(512)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   outputTokens,
	}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: vertex generate content: %v", domain.ErrTransport, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: vertex returned empty text", domain.ErrTransport)
	}

	return text, nil
}
