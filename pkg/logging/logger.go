// Package logging configures the process-wide zerolog logger and hands out
// per-component child loggers.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as it appears in config files and flags.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"

	// LevelOff silences everything, e.g. while a terminal UI owns the screen.
	LevelOff LogLevel = "off"
)

// Component names passed to NewLogger.
const (
	ComponentClient       = "pokeapi-client"
	ComponentIndexLoader  = "index-loader"
	ComponentHydrator     = "hydrator"
	ComponentBatchFetcher = "batch-fetcher"
	ComponentPokedex      = "pokedex"
	ComponentProxy        = "pokedex-proxy"
	ComponentCLI          = "pokedex-cli"
)

// Config selects level and encoding of the global logger.
type Config struct {
	Level LogLevel

	// Pretty switches from JSON lines to zerolog's console writer.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig logs JSON at info level to stderr.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Output: os.Stderr}
}

// levels maps accepted spellings to zerolog levels. Unknown names fall back
// to info.
var levels = map[string]zerolog.Level{
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"off":      zerolog.Disabled,
	"disabled": zerolog.Disabled,
	"none":     zerolog.Disabled,
}

func parseLevel(level LogLevel) zerolog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(string(level)))]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// Setup installs the global logger and level. Loggers created by NewLogger
// afterwards write through it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}

// NewLogger returns a child of the global logger tagged with component.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Levels in use:
//
//	debug  cache hits and stores, conditional requests, discarded stale batches
//	info   index loaded, retry recovered, server start and stop
//	warn   entry dropped from a page, cooldown started, cache backend errors
//	error  index load failed, request failed after retries, bad config
//
// Common fields: endpoint, collection, name, status_code, error_class,
// generation, etag, ttl.
