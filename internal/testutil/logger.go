package testutil

import (
	"bytes"
	"log/slog"

	"github.com/preston-bernstein/season-sync-service/internal/logging"
)

// NewBufferLogger returns a debug-level text logger built by the service's own
// logger factory, plus the buffer it writes to.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "debug", Output: &buf})
	return logger, &buf
}
