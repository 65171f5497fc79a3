package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Kind records how a message entered the conversation. It is a provenance
// tag only; transport treats every kind the same.
type Kind string

const (
	KindText       Kind = "text"
	KindVoice      Kind = "voice"
	KindQuickReply Kind = "quick-reply"
)

// Message is one conversation turn. Text is appended to while an assistant
// reply is streaming and is immutable once the turn completes.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Kind      Kind      `json:"kind"`
}

func NewUserMessage(text string, kind Kind) Message {
	if kind == "" {
		kind = KindText
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now(),
		Kind:      kind,
	}
}

func NewAssistantMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: time.Now(),
		Kind:      KindText,
	}
}

func (m Message) IsUser() bool      { return m.Role == RoleUser }
func (m Message) IsAssistant() bool { return m.Role == RoleAssistant }

func (m Message) IsEmpty() bool { return strings.TrimSpace(m.Text) == "" }

// HistoryEntry is one prior turn forwarded to the model verbatim. The
// system prompt is never part of history; the server adds it separately.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
