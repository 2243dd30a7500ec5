package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"travela/internal/adapters/auth"
	server "travela/internal/adapters/http_server"
	"travela/internal/adapters/llm"
	"travela/internal/adapters/observability"
	redisad "travela/internal/adapters/redis"
	"travela/internal/adapters/unsplash"
	"travela/internal/app"
	"travela/internal/shared"
	mysqlrepo "travela/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("database connection ok")

	// upstreams
	gen, err := llm.New(ctx, llm.Config{
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
		APIKey:   cfg.LLMKey,
		BaseURL:  cfg.LLMBaseURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generation client")
	}
	photos, err := unsplash.New(cfg.UnsplashBase, cfg.UnsplashKey, cfg.UnsplashRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Unsplash client")
	}

	// sessions
	authOpts := auth.Options{Secret: []byte(cfg.AuthSecret), Issuer: cfg.AuthIssuer, Audience: cfg.AuthAudience}
	verifier, err := auth.NewVerifier(authOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token verifier")
	}
	revocations := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer revocations.Close()
	if err := revocations.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	sessions := auth.NewSessions(verifier, revocations)

	// app
	guides := app.NewGuideService(gen, photos, app.GuideConfig{
		BookingLink:       cfg.BookingURL,
		PhotoPageSize:     cfg.PhotoPageSize,
		GenerationTimeout: cfg.GenerationTimeout(),
		PhotoTimeout:      cfg.PhotoTimeout(),
		MaxInFlight:       int64(cfg.MaxInFlightGuides),
	}).WithObserver(observability.ObserveGuide)
	screens := app.NewScreens(guides)
	sessions.OnSignOut(screens.Drop)
	observability.TrackScreens(screens.Len)

	repo := mysqlrepo.New(db)

	// http
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	srv := server.New(server.Options{
		RequestTimeout: cfg.GenerationTimeout() + cfg.PhotoTimeout() + 10*time.Second,
		CORSOrigins:    cfg.CORSOrigins,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Sessions: sessions,
		Screens:  screens,
		Profiles: app.NewProfileService(repo),
		Contact:  app.NewContactService(repo),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("llm", cfg.LLMProvider).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
