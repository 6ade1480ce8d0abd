package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PabloGalante/pill-oracle/internal/domain"
)

// MockLLM answers like a chatty model would: the JSON object comes wrapped in
// prose and a code fence, so local runs exercise the extractor too.
type MockLLM struct {
	Latency time.Duration
	now     func() time.Time
}

func NewMockLLM() *MockLLM {
	return &MockLLM{now: time.Now}
}

func (m *MockLLM) Chat(ctx context.Context, req domain.InferenceRequest) (string, error) {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
		}
	}

	pill, fortune := "blue", "Rest easy tonight. Everything you need is already here with you."
	if strings.Contains(req.Message, "truth") {
		pill, fortune = "red", "The veil is thinner than you think. Look once more and see."
	}

	return fmt.Sprintf(
		"Here is your fortune:\n```json\n{\"result\":{\"fortune\":%q,\"theme\":%q,\"metadata\":{\"length\":%d,\"timestamp\":%q}},\"confidence\":0.9,\"metadata\":{\"processing_time\":\"0s\",\"model\":\"mock\"}}\n```",
		fortune, pill, len(fortune), m.now().UTC().Format(time.RFC3339),
	), nil
}
