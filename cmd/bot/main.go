// main wires the citizenship bot: Discord gateway, lifecycle service,
// notification dispatcher, audit trail, and the HTTP sidecar. Business
// logic lives in internal packages; this file is assembly only.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"consulate/internal/access"
	"consulate/internal/admin"
	"consulate/internal/audit"
	"consulate/internal/citizenship"
	"consulate/internal/citizenship/store"
	"consulate/internal/citizenship/tracker"
	"consulate/internal/notify"
	"consulate/internal/platform/config"
	"consulate/internal/platform/health"
	"consulate/internal/platform/keepalive"
	"consulate/internal/platform/logger"
	"consulate/internal/platform/metrics"
	"consulate/internal/roblox"
	discordtransport "consulate/internal/transport/discord"
	httptransport "consulate/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing consulate bot",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"guild_id", cfg.GuildID,
	)

	bot, err := discordtransport.NewBot(cfg.BotToken, cfg.GuildID, log)
	if err != nil {
		log.Error("discord setup failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	appStore := store.NewInMemory()
	roleProvider := access.NewMutableProvider(access.NewRoleSets(cfg.AdminRoleIDs, cfg.CitizenshipManagerRoleIDs))
	gate := access.NewGate(roleProvider)

	auditor := audit.NewPublisher(audit.NewInMemoryStore(),
		audit.WithAsyncBuffer(64),
		audit.WithPublisherLogger(log),
	)
	defer auditor.Close()

	history := tracker.New()

	dispatcher := notify.NewDiscord(bot.Session(), cfg.Channels,
		notify.WithLogger(log),
		notify.WithMetrics(m),
	)

	service := citizenship.New(appStore, gate, dispatcher, auditor,
		citizenship.WithHistory(history),
		citizenship.WithMetrics(m),
		citizenship.WithLogger(log),
	)

	banner := roblox.NewStub(cfg.RobloxAPIKey, roblox.WithLogger(log))

	bot.RegisterInteractionHandler(discordtransport.NewHandler(
		service, appStore, gate, banner, auditor, cfg.Channels,
		discordtransport.WithLogger(log),
		discordtransport.WithMetrics(m),
		discordtransport.WithStatistics(history),
	))

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("discord", bot.HealthCheck)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:     log,
		Health:     healthHandler,
		Admin:      admin.New(admin.NewService(appStore, history, auditor, roleProvider), log),
		AdminToken: cfg.AdminToken,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Run(ctx)
	})

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return keepalive.New(nil, cfg.KeepAliveURL, cfg.KeepAliveInterval, log).Run(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("consulate bot stopped")
}
