package server

import (
	"strings"

	"github.com/preston-bernstein/season-sync-service/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, deriving it from the
// instance when not explicitly configured. Metrics and logs share this name.
func normalizeProviderName(raw string, provider providers.SeasonProvider) string {
	if raw = strings.TrimSpace(raw); raw != "" {
		return strings.ToLower(raw)
	}
	if provider != nil {
		return strings.ToLower(providers.NameOf(provider, "provider"))
	}
	return "provider"
}
