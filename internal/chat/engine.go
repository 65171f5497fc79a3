package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetozturk/brandsite/pkg/types"
)

// Request is one completion call: system prompt, trimmed prior turns, and
// the new user message.
type Request struct {
	System  string
	History []types.HistoryEntry
	Message string
}

// Engine produces assistant replies. Stream invokes emit once per delta in
// arrival order; a non-nil error from emit aborts the stream.
type Engine interface {
	Complete(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request, emit func(delta string) error) error
}

// EchoEngine is the development fallback when no provider is reachable.
type EchoEngine struct {
	minLatency time.Duration
}

func NewEchoEngine(minLatency time.Duration) *EchoEngine {
	return &EchoEngine{minLatency: minLatency}
}

func (e *EchoEngine) Complete(ctx context.Context, req Request) (string, error) {
	if e.minLatency > 0 {
		select {
		case <-time.After(e.minLatency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("(demo) you said: %s", req.Message), nil
}

func (e *EchoEngine) Stream(ctx context.Context, req Request, emit func(string) error) error {
	text, err := e.Complete(ctx, req)
	if err != nil {
		return err
	}
	words := strings.SplitAfter(text, " ")
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(w); err != nil {
			return err
		}
	}
	return nil
}

// UnconfiguredEngine stands in when no provider API key is set. Both paths
// answer with the configuration notice through the normal success-shaped
// channel, so a missing key never crashes the process or hangs a stream.
type UnconfiguredEngine struct{}

func NewUnconfiguredEngine() *UnconfiguredEngine { return &UnconfiguredEngine{} }

func (e *UnconfiguredEngine) Complete(ctx context.Context, req Request) (string, error) {
	return ConfigNoticeMessage, nil
}

func (e *UnconfiguredEngine) Stream(ctx context.Context, req Request, emit func(string) error) error {
	return emit(ConfigNoticeMessage)
}
