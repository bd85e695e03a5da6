package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// capture installs a global logger writing to a buffer and restores a quiet
// one when the test ends.
func capture(t *testing.T, level LogLevel) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	Setup(Config{Level: level, Output: buf})
	t.Cleanup(func() { Setup(Config{Level: LevelInfo, Output: &bytes.Buffer{}}) })
	return buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != LevelInfo || cfg.Pretty || cfg.Output == nil {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[LogLevel]zerolog.Level{
		LevelDebug:  zerolog.DebugLevel,
		LevelInfo:   zerolog.InfoLevel,
		LevelWarn:   zerolog.WarnLevel,
		LevelError:  zerolog.ErrorLevel,
		LevelOff:    zerolog.Disabled,
		" WARNING ": zerolog.WarnLevel,
		"None":      zerolog.Disabled,
		"":          zerolog.InfoLevel,
		"verbose":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_TagsComponent(t *testing.T) {
	buf := capture(t, LevelDebug)

	NewLogger(ComponentHydrator).Debug().Str("name", "pikachu").Msg("Cache hit")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not a JSON line: %v (%q)", err, buf.String())
	}
	if line["component"] != ComponentHydrator {
		t.Errorf("component = %v, want %q", line["component"], ComponentHydrator)
	}
	if line["name"] != "pikachu" || line["message"] != "Cache hit" {
		t.Errorf("unexpected fields: %v", line)
	}
	if _, ok := line["time"]; !ok {
		t.Error("expected a timestamp field")
	}
}

func TestSetup_FiltersBelowLevel(t *testing.T) {
	buf := capture(t, LevelWarn)
	logger := NewLogger(ComponentClient)

	logger.Debug().Msg("conditional request")
	logger.Info().Msg("index loaded")
	logger.Warn().Msg("cooldown started")
	logger.Error().Msg("request failed")

	out := buf.String()
	for _, hidden := range []string{"conditional request", "index loaded"} {
		if strings.Contains(out, hidden) {
			t.Errorf("%q logged at warn level", hidden)
		}
	}
	for _, shown := range []string{"cooldown started", "request failed"} {
		if !strings.Contains(out, shown) {
			t.Errorf("%q missing at warn level", shown)
		}
	}
}

func TestSetup_Off(t *testing.T) {
	buf := capture(t, LevelOff)

	NewLogger(ComponentCLI).Error().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output with logging off, got %q", buf.String())
	}
}

func TestSetup_Pretty(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})
	t.Cleanup(func() { Setup(Config{Level: LevelInfo, Output: &bytes.Buffer{}}) })

	NewLogger(ComponentProxy).Info().Msg("listening")

	out := buf.String()
	if !strings.Contains(out, "listening") {
		t.Fatalf("message missing: %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("pretty output should not be JSON: %q", out)
	}
}

func TestSetup_NilOutput(t *testing.T) {
	t.Cleanup(func() { Setup(Config{Level: LevelInfo, Output: &bytes.Buffer{}}) })
	Setup(Config{Level: LevelError})
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("GlobalLevel() = %v, want error", zerolog.GlobalLevel())
	}
}
