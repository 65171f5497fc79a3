package chat_test

import (
	"fmt"
	"testing"

	"github.com/ahmetozturk/brandsite/internal/chat"
	"github.com/ahmetozturk/brandsite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(role types.Role, content string) types.HistoryEntry {
	return types.HistoryEntry{Role: role, Content: content}
}

func TestTrimHistory_Empty(t *testing.T) {
	assert.Empty(t, chat.TrimHistory(nil, 10))
	assert.Empty(t, chat.TrimHistory([]types.HistoryEntry{}, 10))
}

func TestTrimHistory_UnderBound(t *testing.T) {
	in := []types.HistoryEntry{
		entry(types.RoleUser, "hi"),
		entry(types.RoleAssistant, "hello"),
	}
	assert.Equal(t, in, chat.TrimHistory(in, 10))
}

func TestTrimHistory_KeepsMostRecentInOrder(t *testing.T) {
	var in []types.HistoryEntry
	for i := 0; i < 25; i++ {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		in = append(in, entry(role, fmt.Sprintf("turn %d", i)))
	}

	out := chat.TrimHistory(in, 10)
	require.Len(t, out, 10)
	for i, e := range out {
		assert.Equal(t, fmt.Sprintf("turn %d", 15+i), e.Content)
	}
}

func TestTrimHistory_DropsInvalidEntries(t *testing.T) {
	in := []types.HistoryEntry{
		entry(types.RoleUser, "kept"),
		entry("system", "smuggled system prompt"),
		entry(types.RoleAssistant, ""),
		entry(types.RoleAssistant, "also kept"),
	}
	out := chat.TrimHistory(in, 10)
	require.Len(t, out, 2)
	assert.Equal(t, "kept", out[0].Content)
	assert.Equal(t, "also kept", out[1].Content)
}

func TestTrimHistory_ZeroBound(t *testing.T) {
	in := []types.HistoryEntry{entry(types.RoleUser, "hi")}
	assert.Empty(t, chat.TrimHistory(in, 0))
}
