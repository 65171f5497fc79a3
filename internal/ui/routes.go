package ui

import (
	"net/http"
	"strings"

	"github.com/ahmetozturk/brandsite/internal/assistant"
	"github.com/ahmetozturk/brandsite/internal/buildinfo"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(mux *chi.Mux, u *UI) {
	mux.Get("/", u.Home)
	mux.Get("/ui/version-pill", u.VersionPill)
}

// Home serves the page hosting the chat widget. Optional page hint via
// query: /?page=<name> picks the page-specific quick replies.
func (u *UI) Home(w http.ResponseWriter, r *http.Request) {
	page := strings.TrimSpace(r.URL.Query().Get("page"))
	if page == "" {
		page = "home"
	}

	u.render(w, "chat.html", map[string]any{
		"Seeded":       u.SeededViews(),
		"QuickReplies": assistant.Suggestions(assistant.Context{CurrentPage: page}),
		"Page":         page,
		"Version":      buildinfo.Version,
		"Commit":       buildinfo.Commit,
	}, http.StatusOK)
}

type versionVM struct {
	Version string
	Commit  string
	BuiltAt string
}

func (u *UI) VersionPill(w http.ResponseWriter, r *http.Request) {
	// Fragment response; avoid caching so rollouts show quickly
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	data := versionVM{
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		BuiltAt: buildinfo.BuiltAt,
	}
	if err := u.tpl.ExecuteTemplate(w, "version-pill.html", data); err != nil {
		u.errTpl(w, err)
	}
}
