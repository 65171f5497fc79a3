package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ahmetozturk/brandsite/internal/config"
	"github.com/ahmetozturk/brandsite/pkg/types"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// Client talks to the hosted LLM provider through langchaingo's OpenAI
// binding. One client is shared by all requests; langchaingo's client is
// safe for concurrent use.
type Client struct {
	log              *slog.Logger
	llm              *openai.LLM
	firstByteTimeout time.Duration
}

func NewClient(cfg config.ProviderConfig, firstByteTimeout time.Duration, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("provider api key not set")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init provider client: %w", err)
	}
	return &Client{log: log, llm: client, firstByteTimeout: firstByteTimeout}, nil
}

func buildMessages(system string, history []types.HistoryEntry, message string) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(history)+2)
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, system))
	for _, e := range history {
		kind := schema.ChatMessageTypeHuman
		if e.Role == types.RoleAssistant {
			kind = schema.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(kind, e.Content))
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeHuman, message))
	return msgs
}

// Complete waits for the full completion.
func (c *Client) Complete(ctx context.Context, system string, history []types.HistoryEntry, message string) (string, error) {
	resp, err := c.llm.GenerateContent(ctx, buildMessages(system, history, message))
	if err != nil {
		return "", fmt.Errorf("provider completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// Stream forwards provider tokens to emit as they arrive. If the provider
// delivers nothing within firstByteTimeout the call is canceled instead of
// hanging the downstream connection.
func (c *Client) Stream(ctx context.Context, system string, history []types.HistoryEntry, message string, emit func(delta string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var gotFirst atomic.Bool
	timer := time.AfterFunc(c.firstByteTimeout, func() {
		if !gotFirst.Load() {
			c.log.Warn("provider produced no output before deadline", "timeout", c.firstByteTimeout.String())
			cancel()
		}
	})
	defer timer.Stop()

	streamFn := func(ctx context.Context, chunk []byte) error {
		if gotFirst.CompareAndSwap(false, true) {
			timer.Stop()
		}
		if len(chunk) == 0 {
			return nil
		}
		return emit(string(chunk))
	}

	_, err := c.llm.GenerateContent(ctx, buildMessages(system, history, message), llms.WithStreamingFunc(streamFn))
	if err != nil {
		if !gotFirst.Load() && ctx.Err() != nil {
			return fmt.Errorf("no data from provider within %s: %w", c.firstByteTimeout, err)
		}
		return fmt.Errorf("provider stream: %w", err)
	}
	return nil
}
