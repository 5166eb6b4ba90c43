package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/eventbus"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/httpapi"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/metrics"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/plaid"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/postgres"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/adapters/stripe"
	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/services"

	stdprom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and payment form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func runServe(parent context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer b.db.Close()
	log := b.log
	cfg := b.cfg

	if migrate {
		if err := b.db.Migrate(ctx); err != nil {
			return err
		}
	}

	// 5. Repositories and external clients
	userRepo := postgres.NewUserRepository(b.db, b.secSvc, &log)

	agg, err := plaid.NewClient(plaid.Config{
		ClientID:    cfg.Plaid.ClientID,
		Secret:      cfg.Plaid.Secret,
		Env:         cfg.Plaid.Env,
		ClientName:  cfg.Plaid.ClientName,
		RedirectURI: cfg.AppURL,
	}, &log)
	if err != nil {
		return err
	}
	proc := stripe.NewClient(cfg.Stripe.SecretKey, cfg.Payment.Currency, &log)

	// 6. Events and metrics
	bus := eventbus.NewInMemoryBus(&log)
	registry := stdprom.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewRecorder(registry, &log)
	if err != nil {
		return err
	}
	recorder.Subscribe(bus)

	// 7. Services
	userSvc := services.NewUserService(userRepo, &log)
	linkSvc := services.NewLinkService(userRepo, agg, bus, &log)
	paymentSvc := services.NewPaymentService(userSvc, userRepo, agg, proc, bus, services.PaymentOptions{
		HistoryLimit:     cfg.Payment.HistoryLimit,
		HistoryMinAmount: cfg.Payment.HistoryMinAmount,
	}, &log)

	// 8. HTTP
	server := httpapi.NewServer(httpapi.Deps{
		Users:          userSvc,
		Links:          linkSvc,
		Payments:       paymentSvc,
		Migrator:       b.db,
		Health:         b.db,
		Observer:       recorder,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		PublishableKey: cfg.Stripe.PublishableKey,
	}, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout, cfg.IsDev(), &log)

	log.Info().Msg("All services initialized successfully")
	if err := server.Start(ctx); err != nil {
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := bus.Drain(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Event handlers still running at exit")
	}
	log.Info().Msg("Shutdown complete")
	return nil
}
