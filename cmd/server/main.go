// Package main runs the snapfeed HTTP server: a small social backend whose
// entire state (users, posts, comments, likes, follows) lives in memory.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│                Server                   │
//	├─────────────────────────────────────────┤
//	│  HTTP API (chi):                        │
//	│    /health       - Liveness             │
//	│    /auth/*       - Register, login      │
//	│    /posts/*      - Posts, comments      │
//	│    /social/*     - Follows, feed        │
//	│    /stats        - Counters             │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    social.Service - Queries, mutations  │
//	│    storage.*      - Locked collections  │
//	└─────────────────────────────────────────┘
//
// Configuration (env or config.yaml, see internal/config):
//   - PORT: Listen port (default: 3000)
//   - LISTEN_HOST: Listen host (default: all interfaces)
//   - LOG_LEVEL: trace|debug|info|warn|error (default: info)
//   - LOG_PRETTY: Human readable console logs (default: false)
//   - CONFIG_DIR: Directory holding config.yaml (default: ".")
//
// Example usage:
//
//	PORT=3000 ./server
//
//	curl -X POST localhost:3000/auth/register \
//	  -d '{"username":"alice","password":"pw"}'
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/snapfeed/internal/api"
	"github.com/dreamware/snapfeed/internal/config"
	"github.com/dreamware/snapfeed/internal/logging"
	"github.com/dreamware/snapfeed/internal/social"
)

// exit is a variable to allow intercepting process exit in tests
var exit = os.Exit

func main() {
	cfg, err := config.Load(getenv("CONFIG_DIR", "."))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		exit(1)
		return
	}

	logger := logging.New(cfg.Log, os.Stdout)
	logging.BridgeStdlib(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Error().Err(err).Str("addr", cfg.Addr()).Msg("listen failed")
		exit(1)
		return
	}

	if err := run(ctx, cfg, logger, ln); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		exit(1)
		return
	}
	logger.Info().Msg("server stopped")
}

// run serves the API on ln until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, ln net.Listener) error {
	svc := social.NewService()

	srv := &http.Server{
		Handler:           api.NewRouter(svc, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// getenv retrieves an environment variable with a default fallback value
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
