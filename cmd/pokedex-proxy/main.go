// Command pokedex-proxy serves a paged, hydrated Pokemon listing over HTTP.
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

	"github.com/Sternrassler/pokeapi-client/internal/config"
	"github.com/Sternrassler/pokeapi-client/pkg/client"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/pokedex"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex-proxy: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Configuration from POKEDEX_CONFIG (optional YAML) and the environment
	cfg, err := config.Load(os.Getenv("POKEDEX_CONFIG"))
	if err != nil {
		return err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger(logging.ComponentProxy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := cfg.OpenBackends(ctx)
	if err != nil {
		return err
	}
	defer backends.Close()

	pokeClient, err := client.New(cfg.ClientConfig(backends))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer pokeClient.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newServer(pokedex.NewService(pokeClient, cfg.MaxConcurrency), pokeClient.Ready).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("cache_backend", cfg.CacheBackend).
			Str("user_agent", cfg.UserAgent).
			Msg("Starting pokedex proxy")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
