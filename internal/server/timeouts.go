package server

import "time"

const (
	readTimeout = 10 * time.Second
	// The change stream and admin refreshes hold connections open; handlers bound their own work.
	writeTimeout = 0
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
