// Command authgate runs the ViralPost auth gateway: the HTTP surface the
// web app talks to for sign-in, sign-up, Google OAuth and auth UI state,
// backed by the hosted identity provider.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/viralpost/authgate/internal/authstate"
	"github.com/viralpost/authgate/internal/authwatch"
	"github.com/viralpost/authgate/internal/config"
	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/internal/web"
	"github.com/viralpost/authgate/pkg/cookie"
	"github.com/viralpost/authgate/pkg/environment"
	"github.com/viralpost/authgate/pkg/httpserver"
	"github.com/viralpost/authgate/pkg/logger"
)

func main() {
	cfg := config.MustLoad()

	log := logger.New(logger.WithEnvironment(cfg.Environment, "authgate"))
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("authgate exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx = environment.WithContext(ctx, cfg.Environment)

	cookies, err := cookie.New(cfg.CookieSecrets)
	if err != nil {
		return err
	}

	client := identity.NewProviderClient(cfg.Provider, identity.WithLogger(log))
	defer func() { _ = client.Close() }()

	store := authstate.NewStore()
	defer func() { _ = store.Close() }()

	watcher := authwatch.New(client, store, authwatch.WithLogger(log))
	watcher.Start(ctx)
	defer watcher.Stop()

	handler := web.NewHandler(client, store, watcher,
		web.WithLogger(log),
		web.WithEnvironment(cfg.Environment),
		web.WithPersistor(authstate.NewCookiePersistor(cookies)),
		web.WithGoogle(cfg.Google),
		web.WithAppURL(cfg.AppURL),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Mount("/", handler.Routes())

	server := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithLogger(log),
	)
	return server.Run(ctx, router)
}
