package chat

import (
	"context"

	"github.com/ahmetozturk/brandsite/internal/llm"
)

// ProviderEngine backs the chat controller with the hosted LLM provider.
type ProviderEngine struct {
	c *llm.Client
}

func NewProviderEngine(c *llm.Client) *ProviderEngine {
	return &ProviderEngine{c: c}
}

func (e *ProviderEngine) Complete(ctx context.Context, req Request) (string, error) {
	return e.c.Complete(ctx, req.System, req.History, req.Message)
}

func (e *ProviderEngine) Stream(ctx context.Context, req Request, emit func(string) error) error {
	return e.c.Stream(ctx, req.System, req.History, req.Message, emit)
}
