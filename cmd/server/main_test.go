package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/config"
)

// main must return immediately under SKIP_SERVER_RUN so test binaries never block.
func TestMainReturnsUnderSkipServerRun(t *testing.T) {
	t.Setenv("SKIP_SERVER_RUN", "1")
	main()
}

func TestNewLoggerTagsServiceAndHonorsConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{Log: config.LogConfig{Level: "debug", Format: "json"}}

	newLogger(cfg, &buf).Debug("season refresh committed", "operation", "world")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if line["service"] != serviceName || line["version"] != appVersion {
		t.Fatalf("expected service tags, got %v", line)
	}
	if line["level"] != "DEBUG" || line["operation"] != "world" {
		t.Fatalf("unexpected log line %v", line)
	}
}
