package assistant_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ahmetozturk/brandsite/internal/assistant"
	"github.com/ahmetozturk/brandsite/pkg/normalize"
	"github.com/ahmetozturk/brandsite/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamHandler(deltas []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		f := w.(http.Flusher)
		for _, d := range deltas {
			payload, _ := json.Marshal(types.StreamEvent{Delta: d})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			f.Flush()
		}
		fmt.Fprintf(w, "data: %s\n\n", types.DoneSentinel)
		f.Flush()
	}
}

func fallbackHandler(response string, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"response":  response,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func newOrchestrator(serverURL string, bridge *assistant.Bridge) *assistant.Orchestrator {
	conv := assistant.NewConversation("home")
	return assistant.NewOrchestrator(assistant.NewClient(serverURL), conv, bridge, normalize.Text, 10, 5*time.Second)
}

func assistantMessages(conv *assistant.Conversation) []types.Message {
	var out []types.Message
	for _, m := range conv.Messages() {
		if m.IsAssistant() {
			out = append(out, m)
		}
	}
	return out
}

func TestOrchestrator_StreamingHappyPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/chat/stream", streamHandler([]string{"Ahmet ", "is ", "a ", "leader."}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newOrchestrator(srv.URL, nil)
	msg, err := o.Send(context.Background(), "Tell me about Ahmet", types.KindText)
	require.NoError(t, err)

	assert.Equal(t, "Ahmet is a leader.", msg.Text)
	require.Len(t, assistantMessages(o.Conversation()), 1)
	assert.False(t, o.Conversation().Busy())
}

func TestOrchestrator_FallsBackWhenStreamUnavailable(t *testing.T) {
	fallbackCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/stream", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.Handle("/api/chat", fallbackHandler("Ahmet leads teams.", &fallbackCalls))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newOrchestrator(srv.URL, nil)
	msg, err := o.Send(context.Background(), "Tell me about Ahmet", types.KindText)
	require.NoError(t, err)

	assert.Equal(t, "Ahmet leads teams.", msg.Text)
	assert.Equal(t, 1, fallbackCalls, "exactly one non-streaming request")
	assert.Len(t, assistantMessages(o.Conversation()), 1, "exactly one assistant message per turn")
}

func TestOrchestrator_FallbackAfterMidStreamFailure(t *testing.T) {
	fallbackCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		f := w.(http.Flusher)
		fmt.Fprintf(w, "data: {\"delta\":\"partial \"}\n\n")
		f.Flush()
		// connection closes with no sentinel
	})
	mux.Handle("/api/chat", fallbackHandler("Complete answer.", &fallbackCalls))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newOrchestrator(srv.URL, nil)
	msg, err := o.Send(context.Background(), "hi", types.KindText)
	require.NoError(t, err)

	assert.Equal(t, "Complete answer.", msg.Text, "fallback reply replaces the partial text")
	assert.Len(t, assistantMessages(o.Conversation()), 1)
}

func TestOrchestrator_ApologyWhenBothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := newOrchestrator(srv.URL, nil)
	msg, err := o.Send(context.Background(), "hi", types.KindText)
	require.NoError(t, err, "terminal failure is a message, not an error")

	assert.Equal(t, assistant.ApologyText, msg.Text)
	assert.Len(t, assistantMessages(o.Conversation()), 1)
	assert.False(t, o.Conversation().Busy(), "conversation is interactive again")
	assert.NotEmpty(t, o.Suggestions(), "quick replies are re-shown")
}

func TestOrchestrator_NormalizesStreamedReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/chat/stream", streamHandler([]string{"Ahmet ", "Ã–ztÃ¼rk"}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newOrchestrator(srv.URL, nil)
	msg, err := o.Send(context.Background(), "who?", types.KindText)
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Öztürk", msg.Text)
}

func TestOrchestrator_RejectsSecondSendWhileOpen(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		f := w.(http.Flusher)
		fmt.Fprintf(w, "data: {\"delta\":\"thinking\"}\n\n")
		f.Flush()
		<-release
		fmt.Fprintf(w, "data: %s\n\n", types.DoneSentinel)
		f.Flush()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	o := newOrchestrator(srv.URL, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := o.Send(context.Background(), "first", types.KindText)
		assert.NoError(t, err)
	}()

	// wait for the first turn to open
	require.Eventually(t, o.Conversation().Busy, time.Second, 5*time.Millisecond)

	_, err := o.Send(context.Background(), "second", types.KindText)
	assert.ErrorIs(t, err, assistant.ErrTurnInFlight)
	assert.Nil(t, o.Suggestions(), "quick replies hidden while a turn is open")

	close(release)
	wg.Wait()
}

func TestOrchestrator_SpeaksFinalReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/chat/stream", streamHandler([]string{"spoken reply"}))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	spoken := make(chan string, 1)
	bridge := assistant.NewBridge(nil, synthFunc(func(ctx context.Context, text string) error {
		spoken <- text
		return nil
	}), false, nil)

	o := newOrchestrator(srv.URL, bridge)
	_, err := o.Send(context.Background(), "hi", types.KindVoice)
	require.NoError(t, err)

	select {
	case text := <-spoken:
		assert.Equal(t, "spoken reply", text)
	case <-time.After(time.Second):
		t.Fatal("nothing was spoken")
	}
}

type synthFunc func(ctx context.Context, text string) error

func (f synthFunc) Speak(ctx context.Context, text string) error { return f(ctx, text) }
