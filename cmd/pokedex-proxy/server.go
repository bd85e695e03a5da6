package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/pokeapi-client/internal/config"
	"github.com/Sternrassler/pokeapi-client/pkg/client"
	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/logging"
	"github.com/Sternrassler/pokeapi-client/pkg/metrics"
	"github.com/Sternrassler/pokeapi-client/pkg/pokedex"
	"github.com/rs/zerolog"
)

const (
	defaultPage     = 1
	defaultPageSize = hydrate.DefaultPageSize

	requestTimeout = 30 * time.Second
)

type server struct {
	svc    *pokedex.Service
	ready  func(ctx context.Context) error
	logger zerolog.Logger
}

func newServer(svc *pokedex.Service, ready func(ctx context.Context) error) *server {
	return &server{
		svc:    svc,
		ready:  ready,
		logger: logging.NewLogger(logging.ComponentProxy),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", s.readyHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/pokemon", s.listHandler)
	mux.HandleFunc("GET /api/pokemon/{nameOrId}", s.detailHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Cache backend not ready")
		http.Error(w, "cache backend unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *server) listHandler(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", defaultPage)
	if err != nil || page < 1 {
		writeError(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	pageSize, err := intParam(r, "pageSize", defaultPageSize)
	if err != nil || pageSize < 1 || pageSize > config.MaxPageSize {
		writeError(w, http.StatusBadRequest, "pageSize must be an integer between 1 and "+strconv.Itoa(config.MaxPageSize))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := s.svc.ListPokemon(ctx, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Int("page", page).Int("page_size", pageSize).Msg("Listing failed")
		writeError(w, http.StatusBadGateway, "failed to load pokemon list")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) detailHandler(w http.ResponseWriter, r *http.Request) {
	nameOrID := r.PathValue("nameOrId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, err := s.svc.GetPokemon(ctx, nameOrID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, p)
	case errors.Is(err, client.ErrNotFound):
		writeError(w, http.StatusNotFound, "pokemon not found")
	default:
		s.logger.Error().Err(err).Str("name", nameOrID).Msg("Detail fetch failed")
		writeError(w, http.StatusBadGateway, "failed to load pokemon")
	}
}

// intParam parses query parameter key, returning def when it is absent.
func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
