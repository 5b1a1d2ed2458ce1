package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.sr.ht/~jakintosh/tally/internal/api"
	"git.sr.ht/~jakintosh/tally/internal/config"
	"git.sr.ht/~jakintosh/tally/internal/csrf"
	"git.sr.ht/~jakintosh/tally/internal/database"
	"git.sr.ht/~jakintosh/tally/internal/metrics"
	"git.sr.ht/~jakintosh/tally/internal/password"
	"git.sr.ht/~jakintosh/tally/internal/policy"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"git.sr.ht/~jakintosh/tally/pkg/tokens"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var envFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. Configuration comes from the environment, optionally
seeded from an env file: JWT_KEY, CSRF_KEY, DB_PATH, PORT, POLICY_PATH,
ALLOWED_ORIGIN, ISSUER_DOMAIN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional env file loaded before reading the environment")
}

func serve(ctx context.Context, cfg *config.Config) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	db := database.NewSQLiteStore(cfg.DBPath)
	defer db.Close()

	pol, err := policy.Load(cfg.PolicyPath, m)
	if err != nil {
		return err
	}
	if err := pol.Watch(ctx); err != nil {
		return err
	}

	issuer, validator := tokens.InitServer([]byte(cfg.JWTKey), cfg.IssuerDomain)
	svc := service.New(
		db.Store(),
		issuer,
		validator,
		csrf.NewValidator([]byte(cfg.CSRFKey)),
		password.NewHasher(password.ModeProduction),
		m,
	)

	router := api.New(
		svc,
		api.WithPolicy(pol),
		api.WithMetrics(m, registry),
		api.WithAllowedOrigin(cfg.AllowedOrigin),
		api.WithHealthCheck(db.Ping),
	).Router()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", server.Addr, "db", cfg.DBPath, "policy", cfg.PolicyPath)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
