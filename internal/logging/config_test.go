package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTimestampedLoggerUsesRFC3339(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config{level: zerolog.InfoLevel, timestamp: true, noColor: true}, &buf)

	logger.Info().Msg("boot")

	// RFC3339 carries the full date; the console default (kitchen time)
	// does not.
	day := time.Now().UTC().Format("2006-01-02")
	if !strings.Contains(buf.String(), day) && !strings.Contains(buf.String(), time.Now().Format("2006-01-02")) {
		t.Fatalf("timestamp not RFC3339 formatted: %q", buf.String())
	}
}

func TestUntimestampedLoggerOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config{level: zerolog.InfoLevel, noColor: true}, &buf)

	logger.Info().Msg("boot")

	year := time.Now().Format("2006")
	if strings.Contains(buf.String(), year) {
		t.Fatalf("unexpected timestamp in output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"  WARN  ": zerolog.WarnLevel,
		"disabled": zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		if !ok || got != want {
			t.Fatalf("parseLevel(%q) got=(%v,%v) want=%v", raw, got, ok, want)
		}
	}
	if _, ok := parseLevel("gibberish"); ok {
		t.Fatalf("unknown level must not parse")
	}
	if _, ok := parseLevel(""); ok {
		t.Fatalf("empty level must not parse")
	}
}
