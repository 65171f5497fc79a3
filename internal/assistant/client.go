package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ahmetozturk/brandsite/pkg/types"
)

// ErrStreamUnavailable means the streaming endpoint did not yield a
// readable event stream. It is recovered by the fallback path, not shown
// to the user.
var ErrStreamUnavailable = errors.New("stream unavailable")

// Client speaks to the assistant API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No overall timeout: streams are long-lived. Turn deadlines come
		// from the caller's context.
		http: &http.Client{},
	}
}

type sendPayload struct {
	Message             string               `json:"message"`
	ConversationHistory []types.HistoryEntry `json:"conversationHistory,omitempty"`
}

// Send runs the non-streaming fallback request and returns the reply text.
func (c *Client) Send(ctx context.Context, message string, history []types.HistoryEntry) (string, error) {
	body, err := json.Marshal(sendPayload{Message: message, ConversationHistory: history})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer res.Body.Close()

	var out struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if res.StatusCode != http.StatusOK || !out.Success {
		return "", fmt.Errorf("chat failed: status %d: %s", res.StatusCode, out.Message)
	}
	return out.Response, nil
}

// OpenStream issues the streaming request and hands back the response body
// for the consumer to read. A non-OK status or missing body maps to
// ErrStreamUnavailable so the orchestrator falls back.
func (c *Client) OpenStream(ctx context.Context, message string, history []types.HistoryEntry) (io.ReadCloser, error) {
	body, err := json.Marshal(sendPayload{Message: message, ConversationHistory: history})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/stream", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStreamUnavailable, err)
	}
	if res.StatusCode != http.StatusOK || res.Body == nil {
		if res.Body != nil {
			res.Body.Close()
		}
		return nil, fmt.Errorf("%w: status %d", ErrStreamUnavailable, res.StatusCode)
	}
	return res.Body, nil
}
