package types

// StreamEvent is the wire-level unit of the streaming chat endpoint. The
// server emits one event per provider token; an empty Delta is a no-op for
// consumers, never a termination signal.
type StreamEvent struct {
	Delta string `json:"delta"`
}

// StreamError is the payload of an SSE "error" event.
type StreamError struct {
	Message string `json:"message"`
}

// DoneSentinel is the literal data line that terminates a stream.
const DoneSentinel = "[DONE]"

// DataPrefix is the SSE data-line prefix.
const DataPrefix = "data: "
