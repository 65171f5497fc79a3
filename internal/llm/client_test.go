package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/ahmetozturk/brandsite/internal/config"
	"github.com/ahmetozturk/brandsite/pkg/types"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.ProviderConfig{Model: "gpt-4o-mini"}, 0, nil)
	require.Error(t, err)
}

func TestBuildMessagesOrderAndRoles(t *testing.T) {
	history := []types.HistoryEntry{
		{Role: types.RoleUser, Content: "who are you"},
		{Role: types.RoleAssistant, Content: "the site assistant"},
	}

	msgs := buildMessages("be helpful", history, "what does Ahmet do")
	require.Len(t, msgs, 4)

	assert.Equal(t, schema.ChatMessageTypeSystem, msgs[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, msgs[1].Role)
	assert.Equal(t, schema.ChatMessageTypeAI, msgs[2].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, msgs[3].Role)

	last, ok := msgs[3].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Equal(t, "what does Ahmet do", last.Text)
}

func TestBuildMessagesEmptyHistory(t *testing.T) {
	msgs := buildMessages("be helpful", nil, "hello")
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.ChatMessageTypeSystem, msgs[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, msgs[1].Role)
}
