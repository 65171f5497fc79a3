package assistant_test

import (
	"testing"

	"github.com/ahmetozturk/brandsite/internal/assistant"
	"github.com/ahmetozturk/brandsite/pkg/normalize"
	"github.com/ahmetozturk/brandsite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversation_SeedNormalizes(t *testing.T) {
	conv := assistant.NewConversation("home")
	conv.Seed([]string{"Hi! I'm the assistant for Ahmet Ã–ztÃ¼rk."}, normalize.Text)

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hi! I'm the assistant for Ahmet Öztürk.", msgs[0].Text)
	assert.True(t, msgs[0].IsAssistant())
}

func TestConversation_AtMostOneOpenAssistant(t *testing.T) {
	conv := assistant.NewConversation("home")

	first := conv.EnsureOpenAssistant()
	second := conv.EnsureOpenAssistant()
	assert.Equal(t, first, second, "a second open request must reuse the open message")

	open := 0
	for _, m := range conv.Messages() {
		if m.IsAssistant() && m.Text == "" {
			open++
		}
	}
	assert.Equal(t, 1, open)
}

func TestConversation_AppendDelta(t *testing.T) {
	conv := assistant.NewConversation("home")
	id := conv.EnsureOpenAssistant()

	require.NoError(t, conv.AppendDelta(id, "Ahmet "))
	require.NoError(t, conv.AppendDelta(id, ""), "empty delta is a no-op")
	require.NoError(t, conv.AppendDelta(id, "leads."))

	msgs := conv.Messages()
	assert.Equal(t, "Ahmet leads.", msgs[len(msgs)-1].Text)
	assert.True(t, conv.Busy())

	assert.Error(t, conv.AppendDelta("bogus-id", "x"))
}

func TestConversation_CompleteClosesAndNormalizes(t *testing.T) {
	conv := assistant.NewConversation("home")
	id := conv.EnsureOpenAssistant()
	require.NoError(t, conv.AppendDelta(id, "Ã–ztÃ¼rk"))

	msg, err := conv.Complete(id, normalize.Text)
	require.NoError(t, err)
	assert.Equal(t, "Öztürk", msg.Text)
	assert.False(t, conv.Busy())

	assert.Error(t, conv.AppendDelta(id, "late delta"), "closed messages are immutable")
}

func TestConversation_HistoryDerivation(t *testing.T) {
	conv := assistant.NewConversation("home")
	conv.AddUser("Tell me about Ahmet", types.KindText)
	id := conv.EnsureOpenAssistant()
	require.NoError(t, conv.AppendDelta(id, "Ahmet is a leader."))
	_, err := conv.Complete(id, nil)
	require.NoError(t, err)

	open := conv.EnsureOpenAssistant()

	hist := conv.History(10)
	require.Len(t, hist, 2, "open placeholder is excluded")
	assert.Equal(t, types.RoleUser, hist[0].Role)
	assert.Equal(t, "Tell me about Ahmet", hist[0].Content)
	assert.Equal(t, types.RoleAssistant, hist[1].Role)

	_, err = conv.Resolve(open, "done")
	require.NoError(t, err)
}

func TestConversation_HistoryBound(t *testing.T) {
	conv := assistant.NewConversation("home")
	for i := 0; i < 15; i++ {
		conv.AddUser("question", types.KindText)
		id := conv.EnsureOpenAssistant()
		_, err := conv.Resolve(id, "answer")
		require.NoError(t, err)
	}

	hist := conv.History(10)
	assert.Len(t, hist, 10)
	// most recent survive, alternating user/assistant in order
	assert.Equal(t, types.RoleUser, hist[0].Role)
	assert.Equal(t, types.RoleAssistant, hist[len(hist)-1].Role)
}

func TestConversation_ContextTracksTopics(t *testing.T) {
	conv := assistant.NewConversation("projects")
	conv.AddUser("What services and projects has Ahmet done?", types.KindText)
	conv.AddUser("more about projects please", types.KindText)

	ctx := conv.Context()
	assert.Equal(t, "projects", ctx.CurrentPage)
	assert.Equal(t, []string{"project", "service"}, ctx.TopicsDiscussed)
	assert.False(t, ctx.LastInteractionAt.IsZero())
}
