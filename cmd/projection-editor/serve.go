package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-projection-editor/internal/config"
	"github.com/goliatone/go-projection-editor/internal/metrics"
	"github.com/goliatone/go-projection-editor/internal/server"
	"github.com/goliatone/go-projection-editor/pkg/session"
)

const (
	shutdownTimeout  = 5 * time.Second
	maxSweepInterval = 10 * time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr        string
		variantName string
		storeKind   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor over HTTP",
		Long:  `Starts the browser editor. Each browser session keeps its own document in the configured store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			if variantName != "" {
				cfg.Variant = variantName
			}
			if storeKind != "" {
				cfg.Store.Kind = storeKind
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !a.variants.Has(cfg.Variant) {
				return fmt.Errorf("unknown variant %q", cfg.Variant)
			}
			return a.serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&variantName, "variant", "", "variant for new sessions")
	cmd.Flags().StringVar(&storeKind, "store", "", "session store: memory or redis")
	return cmd
}

func (a *app) serve(ctx context.Context, cfg config.Config) error {
	store, closeStore, err := a.openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	themeCfg, err := server.ThemeFromConfig(cfg.Theme)
	if err != nil {
		return err
	}

	manager := session.NewManager(store, a.variants, session.WithDefaultVariant(cfg.Variant))
	srv, err := server.New(manager, a.variants,
		server.WithLogger(a.logger),
		server.WithMetrics(metrics.New()),
		server.WithTheme(themeCfg),
		server.WithSecureCookie(cfg.SecureCookie),
	)
	if err != nil {
		return err
	}

	shutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interval := sweepInterval(cfg.Store.TTL); interval > 0 {
		go manager.RunSweeper(shutdown, interval, func(live int, err error) {
			if err != nil {
				a.logger.Warn("sweep sessions", "error", err)
				return
			}
			a.logger.Debug("swept sessions", "live", live)
		})
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("serving editor", "addr", cfg.Addr, "variant", cfg.Variant, "store", cfg.Store.Kind)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-shutdown.Done():
		a.logger.Info("shutting down")
		timeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(timeout); err != nil {
			a.logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return httpServer.Close()
		}
		return nil
	}
}

// sweepInterval is how often expired sessions are evicted: once per TTL,
// capped so long TTLs do not leave expired sessions around for days. Zero
// disables sweeping.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return min(ttl, maxSweepInterval)
}

func (a *app) openStore(ctx context.Context, cfg config.Store) (session.Store, func(), error) {
	switch cfg.Kind {
	case config.StoreRedis:
		store := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, session.WithRedisTTL(cfg.TTL))
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				a.logger.Warn("close session store", "error", err)
			}
		}, nil
	default:
		return session.NewMemoryStore(session.WithMemoryTTL(cfg.TTL)), func() {}, nil
	}
}
