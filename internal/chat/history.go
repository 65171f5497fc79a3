package chat

import "github.com/ahmetozturk/brandsite/pkg/types"

// TrimHistory bounds the prior turns forwarded to the model: entries with
// roles other than user/assistant or with empty content are dropped, then
// only the most recent n survive, oldest first. An empty input yields an
// empty slice; the request still proceeds with just the new user turn.
func TrimHistory(entries []types.HistoryEntry, n int) []types.HistoryEntry {
	if n <= 0 {
		return nil
	}
	kept := make([]types.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Content == "" {
			continue
		}
		if e.Role != types.RoleUser && e.Role != types.RoleAssistant {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return kept
}
