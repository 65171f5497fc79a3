package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetozturk/brandsite/pkg/types"
)

// ApologyText is the canned assistant reply when both transports fail.
const ApologyText = "I'm sorry, I'm having trouble responding right now. Please try again in a moment, or reach Ahmet directly through the contact form."

var ErrTurnInFlight = errors.New("a turn is already in flight")

// Orchestrator drives one turn end to end: streaming first, the
// non-streaming endpoint when streaming fails before the sentinel, and a
// canned apology when both fail. Exactly one assistant message results
// per submitted turn.
type Orchestrator struct {
	client        *Client
	conv          *Conversation
	bridge        *Bridge
	normalize     func(string) string
	historyWindow int
	turnTimeout   time.Duration
}

func NewOrchestrator(client *Client, conv *Conversation, bridge *Bridge, normalize func(string) string, historyWindow int, turnTimeout time.Duration) *Orchestrator {
	if normalize == nil {
		normalize = func(s string) string { return s }
	}
	return &Orchestrator{
		client:        client,
		conv:          conv,
		bridge:        bridge,
		normalize:     normalize,
		historyWindow: historyWindow,
		turnTimeout:   turnTimeout,
	}
}

func (o *Orchestrator) Conversation() *Conversation { return o.conv }

// Suggestions returns the quick replies for the current context. They are
// hidden while a turn is open.
func (o *Orchestrator) Suggestions() []QuickReply {
	if o.conv.Busy() {
		return nil
	}
	return Suggestions(o.conv.Context())
}

// Send submits one user turn and blocks until its assistant message is
// final. The turn timeout bounds the whole cycle so a hung stream cannot
// leave the conversation stuck open.
func (o *Orchestrator) Send(ctx context.Context, text string, kind types.Kind) (types.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Message{}, errors.New("empty message")
	}
	if o.conv.Busy() {
		return types.Message{}, ErrTurnInFlight
	}

	// history is derived before the in-flight message joins the list; the
	// server appends the new turn itself
	history := o.conv.History(o.historyWindow)
	o.conv.AddUser(text, kind)

	ctx, cancel := context.WithTimeout(ctx, o.turnTimeout)
	defer cancel()

	if msg, ok := o.tryStream(ctx, text, history); ok {
		o.speak(msg.Text)
		return msg, nil
	}
	if msg, ok := o.tryFallback(ctx, text, history); ok {
		o.speak(msg.Text)
		return msg, nil
	}

	id := o.conv.EnsureOpenAssistant()
	msg, err := o.conv.Resolve(id, ApologyText)
	return msg, err
}

func (o *Orchestrator) tryStream(ctx context.Context, text string, history []types.HistoryEntry) (types.Message, bool) {
	body, err := o.client.OpenStream(ctx, text, history)
	if err != nil {
		return types.Message{}, false
	}
	defer body.Close()

	sc := NewStreamConsumer(o.conv)
	id, err := sc.Consume(body)
	if err != nil {
		// the placeholder stays open; the fallback reply resolves it
		return types.Message{}, false
	}
	msg, err := o.conv.Complete(id, o.normalize)
	if err != nil {
		return types.Message{}, false
	}
	return msg, true
}

func (o *Orchestrator) tryFallback(ctx context.Context, text string, history []types.HistoryEntry) (types.Message, bool) {
	reply, err := o.client.Send(ctx, text, history)
	if err != nil {
		return types.Message{}, false
	}
	id := o.conv.EnsureOpenAssistant()
	msg, err := o.conv.Resolve(id, o.normalize(reply))
	if err != nil {
		return types.Message{}, false
	}
	return msg, true
}

func (o *Orchestrator) speak(text string) {
	if o.bridge != nil {
		o.bridge.Speak(text)
	}
}
