package config

import "time"

const (
	envPort          = "PORT"
	envPollInterval  = "POLL_INTERVAL"
	envProvider      = "PROVIDER"
	envSeasonID      = "SEASON_ID"
	envAdminToken    = "ADMIN_TOKEN"
	envStreamOrigins = "STREAM_ALLOWED_ORIGINS"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	envDysBaseURL       = "DYS_API_BASE_URL"
	envDysSessionCookie = "DYS_SESSION_COOKIE"
	envDysTimeout       = "DYS_HTTP_TIMEOUT"
	envDysRetryAttempts = "DYS_RETRY_ATTEMPTS"
	envDysMinInterval   = "DYS_MIN_INTERVAL"

	envSnapshotsEnabled  = "SNAPSHOTS_ENABLED"
	envSnapshotFolder    = "SNAPSHOT_FOLDER"
	envSnapshotRetention = "SNAPSHOT_RETENTION_DAYS"

	// ProviderFixture serves the embedded payloads; ProviderDysAPI talks to the simulation backend.
	ProviderFixture = "fixture"
	ProviderDysAPI  = "dysapi"

	defaultPort         = "4000"
	defaultPollInterval = 30 * Duration(time.Second)
	defaultProvider     = ProviderFixture
	defaultSeasonID     = 1
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "season-sync-service"

	defaultDysBaseURL       = "http://localhost:8080"
	defaultDysTimeout       = 10 * Duration(time.Second)
	defaultDysRetryAttempts = 3
	// Spacing between upstream calls; a full refresh issues four.
	defaultDysMinInterval = 250 * Duration(time.Millisecond)

	defaultSnapshotsEnabled  = true
	defaultSnapshotFolder    = "data/snapshots"
	defaultSnapshotRetention = 14
)
