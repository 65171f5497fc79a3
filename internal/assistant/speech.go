package assistant

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// Recognizer captures one spoken utterance. Listen blocks until a final
// transcript is available, the context is canceled, or recognition fails.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// Synthesizer plays one utterance. Speak should honor ctx cancellation so
// a newer utterance can cut off the previous one.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Bridge owns all speech state. Callers toggle listening and request
// playback; they never reach the underlying backends directly. Both
// backends are optional: a nil recognizer or synthesizer makes the
// corresponding operation a silent no-op.
type Bridge struct {
	mu           sync.Mutex
	rec          Recognizer
	synth        Synthesizer
	muted        bool
	listening    bool
	cancelListen context.CancelFunc
	cancelSpeak  context.CancelFunc
	speakDone    chan struct{}
	notify       func(string)
}

// NewBridge wires the optional backends. notify receives non-fatal
// recognition notices for the UI; it may be nil.
func NewBridge(rec Recognizer, synth Synthesizer, muted bool, notify func(string)) *Bridge {
	if notify == nil {
		notify = func(string) {}
	}
	return &Bridge{rec: rec, synth: synth, muted: muted, notify: notify}
}

func (b *Bridge) Listening() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listening
}

// StartListening captures a single utterance and hands the final
// transcript to submit. Recognition errors surface as a notice and return
// the bridge to idle; the toggle never sticks in "listening".
func (b *Bridge) StartListening(ctx context.Context, submit func(transcript string)) {
	b.mu.Lock()
	if b.rec == nil || b.listening {
		b.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancelListen = cancel
	b.listening = true
	b.mu.Unlock()

	go func() {
		transcript, err := b.rec.Listen(ctx)

		b.mu.Lock()
		b.listening = false
		b.cancelListen = nil
		b.mu.Unlock()

		if err != nil {
			if ctx.Err() == nil {
				b.notify("voice input didn't work, please type instead")
			}
			return
		}
		if transcript != "" {
			submit(transcript)
		}
	}()
}

func (b *Bridge) StopListening() {
	b.mu.Lock()
	cancel := b.cancelListen
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Speak plays text once. A still-playing utterance is canceled and waited
// out first, so at most one is ever in flight. Muted or backend-less
// bridges no-op.
func (b *Bridge) Speak(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.synth == nil || b.muted || text == "" {
		return
	}
	if b.cancelSpeak != nil {
		b.cancelSpeak()
		<-b.speakDone
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	b.cancelSpeak = cancel
	b.speakDone = done
	synth := b.synth

	go func() {
		defer close(done)
		defer cancel()
		_ = synth.Speak(ctx, text)
	}()
}

func (b *Bridge) CancelSpeech() {
	b.mu.Lock()
	cancel, done := b.cancelSpeak, b.speakDone
	b.cancelSpeak, b.speakDone = nil, nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (b *Bridge) SetMuted(muted bool) {
	b.mu.Lock()
	b.muted = muted
	b.mu.Unlock()
	if muted {
		b.CancelSpeech()
	}
}

func (b *Bridge) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.muted
}

// CommandSynthesizer shells out to a text-to-speech command (say, espeak,
// festival). Absence of the binary is not an error: the constructor
// returns nil and the bridge degrades to a no-op.
type CommandSynthesizer struct {
	path string
	args []string
}

func NewCommandSynthesizer(command string) *CommandSynthesizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil
	}
	return &CommandSynthesizer{path: path, args: fields[1:]}
}

func (s *CommandSynthesizer) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, s.path, append(append([]string(nil), s.args...), text)...)
	return cmd.Run()
}
