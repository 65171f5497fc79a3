package assistant

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/ahmetozturk/brandsite/pkg/types"
)

// State of one send cycle.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrStreamInterrupted means the stream ended without the terminal
// sentinel: the transport broke, the server emitted an error event, or the
// reader was abandoned.
var ErrStreamInterrupted = errors.New("stream ended before sentinel")

// StreamConsumer reconstructs the assistant reply from an SSE body,
// applying deltas to the conversation's open message in arrival order.
type StreamConsumer struct {
	conv  *Conversation
	state State
}

func NewStreamConsumer(conv *Conversation) *StreamConsumer {
	return &StreamConsumer{conv: conv, state: StateIdle}
}

func (sc *StreamConsumer) State() State { return sc.state }

// Consume reads body to the sentinel. On success the open message holds
// the assembled reply (not yet finalized); the caller runs Complete with
// the normalizer. Any transport or read error becomes a Failed transition,
// never a panic or a propagated parse error; malformed individual lines
// are skipped so one corrupt chunk cannot lose the rest of the reply.
func (sc *StreamConsumer) Consume(body io.Reader) (msgID string, err error) {
	sc.state = StateStreaming
	msgID = sc.conv.EnsureOpenAssistant()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	inErrorEvent := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			inErrorEvent = strings.TrimPrefix(line, "event: ") == "error"
			continue
		}
		if !strings.HasPrefix(line, types.DataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, types.DataPrefix)
		if inErrorEvent {
			sc.state = StateFailed
			return msgID, ErrStreamInterrupted
		}
		if payload == types.DoneSentinel {
			sc.state = StateComplete
			return msgID, nil
		}
		var ev types.StreamEvent
		if json.Unmarshal([]byte(payload), &ev) != nil {
			// one corrupt line must not lose the rest of the reply
			continue
		}
		if ev.Delta == "" {
			continue
		}
		if err := sc.conv.AppendDelta(msgID, ev.Delta); err != nil {
			sc.state = StateFailed
			return msgID, err
		}
	}

	sc.state = StateFailed
	if err := scanner.Err(); err != nil {
		return msgID, err
	}
	return msgID, ErrStreamInterrupted
}

// ReceivedAny reports whether any delta reached the open message.
func (sc *StreamConsumer) ReceivedAny(msgID string) bool {
	for _, m := range sc.conv.Messages() {
		if m.ID == msgID {
			return m.Text != ""
		}
	}
	return false
}
