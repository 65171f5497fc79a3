package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetozturk/brandsite/pkg/types"
)

var (
	ErrEmptyMessage   = errors.New("message is required")
	ErrMessageTooLong = errors.New("message is too long")
)

type Controller struct {
	log           *slog.Logger
	eng           Engine
	historyWindow int
	maxChars      int
}

func NewController(log *slog.Logger, eng Engine, historyWindow, maxChars int) *Controller {
	return &Controller{log: log, eng: eng, historyWindow: historyWindow, maxChars: maxChars}
}

// Validate rejects empty or oversized messages before any upstream call.
func (c *Controller) Validate(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > c.maxChars {
		return ErrMessageTooLong
	}
	return nil
}

func (c *Controller) buildRequest(message string, history []types.HistoryEntry) Request {
	return Request{
		System:  SystemPrompt,
		History: TrimHistory(history, c.historyWindow),
		Message: message,
	}
}

// Respond runs one non-streaming turn.
func (c *Controller) Respond(ctx context.Context, message string, history []types.HistoryEntry) (string, error) {
	req := c.buildRequest(message, history)
	start := time.Now()
	text, err := c.eng.Complete(ctx, req)
	if err != nil {
		c.log.Error("engine call", "err", err.Error())
		return "", err
	}
	c.log.Info("chat turn", "history", len(req.History), "latency_ms", time.Since(start).Milliseconds())
	return text, nil
}

// StreamReply runs one streaming turn, forwarding every delta to emit in
// arrival order.
func (c *Controller) StreamReply(ctx context.Context, message string, history []types.HistoryEntry, emit func(delta string) error) error {
	req := c.buildRequest(message, history)
	start := time.Now()
	if err := c.eng.Stream(ctx, req, emit); err != nil {
		c.log.Error("engine stream", "err", err.Error())
		return err
	}
	c.log.Info("chat stream", "history", len(req.History), "latency_ms", time.Since(start).Milliseconds())
	return nil
}
