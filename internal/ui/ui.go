package ui

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ahmetozturk/brandsite/pkg/normalize"
	"github.com/ahmetozturk/brandsite/pkg/types"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// seededGreetings open every fresh widget. Copy deliberately arrives here
// in whatever encoding the CMS exported; normalize repairs it at mount.
var seededGreetings = []string{
	"Hi! I'm the assistant for **Ahmet Ã–ztÃ¼rk**. Ask me about his projects, services, or experience.",
	"You can also use the shortcuts below to get started.",
}

// UI serves the page hosting the chat widget and renders message markdown.
type UI struct {
	log    *slog.Logger
	tpl    *template.Template
	md     goldmark.Markdown
	seeded []types.Message
}

func New(log *slog.Logger) (*UI, error) {
	t := template.New("root")
	var err error
	if t, err = t.ParseGlob("web/templates/*.html"); err != nil {
		return nil, err
	}
	if t, err = t.ParseGlob("web/templates/partials/*.html"); err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle("dracula"),
				highlighting.WithFormatOptions(
					chromahtml.WithLineNumbers(false),
				),
			),
		),
	)

	seeded := make([]types.Message, 0, len(seededGreetings))
	for _, g := range seededGreetings {
		seeded = append(seeded, types.NewAssistantMessage(normalize.Text(g)))
	}

	return &UI{log: log, tpl: t, md: md, seeded: seeded}, nil
}

type MsgView struct {
	Role string
	HTML template.HTML
	At   string
}

func (u *UI) mdHTML(src string) template.HTML {
	var buf bytes.Buffer
	_ = u.md.Convert([]byte(src), &buf)

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("code", "pre", "span")
	p.AllowAttrs("style").OnElements("span") // inline styles from the highlighter

	return template.HTML(p.SanitizeBytes(buf.Bytes()))
}

func (u *UI) render(w http.ResponseWriter, name string, data any, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := u.tpl.ExecuteTemplate(w, name, data); err != nil {
		u.errTpl(w, err)
	}
}

func (u *UI) errTpl(w http.ResponseWriter, err error) {
	u.log.Error("template execute", "err", err)
	_, _ = w.Write([]byte("<pre>template error</pre>"))
}

// SeededViews renders the seeded greeting messages for the host page.
func (u *UI) SeededViews() []MsgView {
	out := make([]MsgView, 0, len(u.seeded))
	for _, m := range u.seeded {
		out = append(out, MsgView{
			Role: string(m.Role),
			HTML: u.mdHTML(m.Text),
			At:   m.CreatedAt.Format("15:04"),
		})
	}
	return out
}
