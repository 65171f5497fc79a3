// Command assistant is a terminal client for the brandsite chat API. It
// streams replies, falls back to the plain endpoint when streaming is
// unavailable, and can read questions and speak answers through optional
// voice backends.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ahmetozturk/brandsite/internal/assistant"
	"github.com/ahmetozturk/brandsite/internal/config"
	"github.com/ahmetozturk/brandsite/pkg/normalize"
	"github.com/ahmetozturk/brandsite/pkg/types"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	replyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

var greetings = []string{
	"Hi! I'm the assistant for Ahmet Ã–ztÃ¼rk's site.",
	"Ask me about his projects, services, or how to get in touch.",
}

func main() {
	var (
		cfgFile  string
		server   string
		page     string
		unmute   bool
		speakCmd string
	)

	root := &cobra.Command{
		Use:   "assistant",
		Short: "Terminal client for the brandsite assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if server != "" {
				cfg.Client.ServerURL = server
			}
			if page != "" {
				cfg.Client.Page = page
			}
			if speakCmd != "" {
				cfg.Client.SpeakCommand = speakCmd
			}
			if unmute {
				cfg.Client.Muted = false
			}
			return run(cfg)
		},
	}

	root.Flags().StringVar(&cfgFile, "config", "", "path to config file (YAML)")
	root.Flags().StringVar(&server, "server", "", "assistant server base URL")
	root.Flags().StringVar(&page, "page", "", "site page the conversation starts on")
	root.Flags().BoolVar(&unmute, "speak", false, "speak replies aloud")
	root.Flags().StringVar(&speakCmd, "speak-cmd", "", "text-to-speech command (e.g. \"say\" or \"espeak\")")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	conv := assistant.NewConversation(cfg.Client.Page)
	conv.Seed(greetings, normalize.Text)

	var synth assistant.Synthesizer
	if cs := assistant.NewCommandSynthesizer(cfg.Client.SpeakCommand); cs != nil {
		synth = cs
	}
	bridge := assistant.NewBridge(nil, synth, cfg.Client.Muted, func(notice string) {
		fmt.Println(noticeStyle.Render(notice))
	})

	client := assistant.NewClient(cfg.Client.ServerURL)
	orch := assistant.NewOrchestrator(client, conv, bridge, normalize.Text,
		cfg.Chat.HistoryWindow, cfg.Client.TurnTimeout)

	for _, m := range conv.Messages() {
		fmt.Println(assistantStyle.Render(m.Text))
	}
	fmt.Println(noticeStyle.Render("type a question, a quick-reply number, /mute, /listen, or /quit"))

	replies := printReplies(orch.Suggestions())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(userStyle.Render("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			bridge.CancelSpeech()
			return nil
		case line == "/mute":
			bridge.SetMuted(!bridge.Muted())
			if bridge.Muted() {
				fmt.Println(noticeStyle.Render("playback muted"))
			} else {
				fmt.Println(noticeStyle.Render("playback on"))
			}
			continue
		case line == "/listen":
			bridge.StartListening(context.Background(), func(transcript string) {
				fmt.Println(userStyle.Render(transcript))
				reply, err := orch.Send(context.Background(), transcript, types.KindVoice)
				if err != nil {
					fmt.Println(noticeStyle.Render(err.Error()))
					return
				}
				fmt.Println(assistantStyle.Render(reply.Text))
			})
			continue
		}

		text, kind := line, types.KindText
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(replies) {
			text, kind = replies[n-1].Message, types.KindQuickReply
			fmt.Println(userStyle.Render(text))
		}

		reply, err := orch.Send(context.Background(), text, kind)
		if err != nil {
			fmt.Println(noticeStyle.Render(err.Error()))
			continue
		}
		fmt.Println(assistantStyle.Render(reply.Text))

		replies = printReplies(orch.Suggestions())
	}
}

func printReplies(suggestions []assistant.QuickReply) []assistant.QuickReply {
	for i, qr := range suggestions {
		fmt.Println(replyStyle.Render(fmt.Sprintf("  %d. %s", i+1, qr.Label)))
	}
	return suggestions
}
