package assistant

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ahmetozturk/brandsite/pkg/types"
)

var ErrNoOpenMessage = errors.New("no assistant message open")

// Context is the client's rolling view of the conversation: the page the
// widget lives on and the topics touched so far. It only influences which
// quick replies are offered; it is never sent to the model.
type Context struct {
	CurrentPage       string
	TopicsDiscussed   []string
	LastInteractionAt time.Time
}

// Conversation is the single source of truth for the transcript. History
// forwarded upstream is derived from it on every send, never kept as a
// separate copy that could drift. At most one assistant message is open
// (still receiving chunks) at any time.
type Conversation struct {
	mu       sync.Mutex
	messages []types.Message
	openID   string
	ctx      Context
}

func NewConversation(page string) *Conversation {
	return &Conversation{ctx: Context{CurrentPage: page}}
}

// Seed inserts pre-written messages (e.g. the greeting), running each
// through norm before display.
func (c *Conversation) Seed(texts []string, norm func(string) string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range texts {
		if norm != nil {
			t = norm(t)
		}
		c.messages = append(c.messages, types.NewAssistantMessage(t))
	}
}

// AddUser appends a user turn and updates the rolling context.
func (c *Conversation) AddUser(text string, kind types.Kind) types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := types.NewUserMessage(text, kind)
	c.messages = append(c.messages, m)
	c.touch(m.Text)
	return m
}

// EnsureOpenAssistant returns the ID of the open assistant message,
// creating an empty one if none is open. The empty message doubles as the
// live-typing placeholder in the UI.
func (c *Conversation) EnsureOpenAssistant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openID != "" {
		return c.openID
	}
	m := types.NewAssistantMessage("")
	c.messages = append(c.messages, m)
	c.openID = m.ID
	return m.ID
}

// AppendDelta appends to the open assistant message in place. An empty
// delta is a no-op, never a termination signal.
func (c *Conversation) AppendDelta(id, delta string) error {
	if delta == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openID == "" || c.openID != id {
		return ErrNoOpenMessage
	}
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Text += delta
			return nil
		}
	}
	return ErrNoOpenMessage
}

// Resolve finalizes the open assistant message with text (replacing any
// partial content) and closes the turn.
func (c *Conversation) Resolve(id, text string) (types.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openID == "" || c.openID != id {
		return types.Message{}, ErrNoOpenMessage
	}
	for i := range c.messages {
		if c.messages[i].ID == id {
			c.messages[i].Text = text
			c.openID = ""
			c.touch(text)
			return c.messages[i], nil
		}
	}
	return types.Message{}, ErrNoOpenMessage
}

// Complete finalizes the open assistant message with its accumulated text
// passed through finalize (the normalizer).
func (c *Conversation) Complete(id string, finalize func(string) string) (types.Message, error) {
	c.mu.Lock()
	text := ""
	found := false
	for i := range c.messages {
		if c.messages[i].ID == id {
			text = c.messages[i].Text
			found = true
			break
		}
	}
	open := c.openID == id
	c.mu.Unlock()
	if !found || !open {
		return types.Message{}, ErrNoOpenMessage
	}
	if finalize != nil {
		text = finalize(text)
	}
	return c.Resolve(id, text)
}

// Busy reports whether an assistant turn is still open; the send affordance
// stays disabled while it is.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.openID != ""
}

// Messages returns a snapshot of the transcript.
func (c *Conversation) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// History derives the last n completed turns for forwarding upstream. The
// open placeholder, if any, is excluded.
func (c *Conversation) History(n int) []types.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := make([]types.HistoryEntry, 0, len(c.messages))
	for _, m := range c.messages {
		if m.ID == c.openID || m.Text == "" {
			continue
		}
		entries = append(entries, types.HistoryEntry{Role: m.Role, Content: m.Text})
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

// Context returns the rolling context snapshot.
func (c *Conversation) Context() Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.ctx
	out.TopicsDiscussed = append([]string(nil), c.ctx.TopicsDiscussed...)
	return out
}

var topicKeywords = []string{"project", "service", "testimonial", "contact", "experience", "pricing", "leadership"}

func (c *Conversation) touch(text string) {
	c.ctx.LastInteractionAt = time.Now()
	lower := strings.ToLower(text)
	for _, kw := range topicKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		seen := false
		for _, have := range c.ctx.TopicsDiscussed {
			if have == kw {
				seen = true
				break
			}
		}
		if !seen {
			c.ctx.TopicsDiscussed = append(c.ctx.TopicsDiscussed, kw)
		}
	}
}
