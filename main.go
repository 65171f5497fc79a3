package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ahmetozturk/brandsite/internal/api"
	"github.com/ahmetozturk/brandsite/internal/buildinfo"
	"github.com/ahmetozturk/brandsite/internal/chat"
	"github.com/ahmetozturk/brandsite/internal/config"
	"github.com/ahmetozturk/brandsite/internal/llm"
	"github.com/ahmetozturk/brandsite/internal/logging"
	"github.com/ahmetozturk/brandsite/internal/middleware"
	"github.com/ahmetozturk/brandsite/internal/ui"
)

func main() {
	cfgFile := flag.String("config", "", "path to config file (YAML)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	echo := flag.Bool("echo", false, "use the echo engine instead of a provider (dev only)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("build", "version", buildinfo.Version, "commit", buildinfo.Commit, "built_at", buildinfo.BuiltAt)

	// Engine selection: hosted provider if a key is set, otherwise a
	// configuration-notice engine so the site still answers something.
	var engine chat.Engine
	providerConfigured := false
	switch {
	case *echo:
		logger.Warn("echo engine enabled; replies are canned")
		engine = chat.NewEchoEngine(30 * time.Millisecond)
	case cfg.Provider.APIKey != "":
		client, err := llm.NewClient(cfg.Provider, cfg.Chat.FirstByteTimeout, logger)
		if err != nil {
			logger.Error("provider init", "err", err)
			os.Exit(1)
		}
		engine = chat.NewProviderEngine(client)
		providerConfigured = true
		logger.Info("provider engine enabled", "model", cfg.Provider.Model)
	default:
		logger.Warn("no provider API key set; assistant will return a configuration notice")
		engine = chat.NewUnconfiguredEngine()
	}

	chatCtrl := chat.NewController(logger, engine, cfg.Chat.HistoryWindow, cfg.Chat.MaxMessageChars)

	uih, err := ui.New(logger)
	if err != nil {
		logger.Error("ui init", "err", err)
		os.Exit(1)
	}

	h := api.NewHandlers(logger, chatCtrl)
	h.ProviderConfigured = providerConfigured
	h.ProviderModel = cfg.Provider.Model

	chatRL := middleware.NewRateLimiter(cfg.RateLimit.Chat.Limit, cfg.RateLimit.Chat.Window)
	apiRL := middleware.NewRateLimiter(cfg.RateLimit.API.Limit, cfg.RateLimit.API.Window)

	mux := chi.NewRouter()

	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	ui.RegisterRoutes(mux, uih)
	api.RegisterRoutes(mux, h, chatRL.Handler(logger), apiRL.Handler(logger))

	var handler http.Handler = mux
	handler = middleware.Recoverer(logger)(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.AccessLog(logger)(handler)
	handler = middleware.VersionHeader(logger)(handler)

	server := http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Addr),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// streaming replies hold the response open well past a normal
		// request, so the write timeout is generous
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("server listening", "addr", cfg.Server.Addr)

	errChan := make(chan error, 1)
	go func() { errChan <- server.ListenAndServe() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	} else {
		logger.Info("server stopped")
	}
}
