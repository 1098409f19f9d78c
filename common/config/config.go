package config

import (
	"strings"
	"time"

	"github.com/songquanpeng/echobin/common/env"
)

var (
	// ServerPort overrides the --port flag when running inside container or PaaS environments.
	ServerPort = strings.TrimSpace(env.String("PORT", ""))
	// BindHost restricts the listening address. Empty binds all interfaces.
	BindHost = strings.TrimSpace(env.String("HOST", ""))
	// GinMode allows forcing Gin into release mode (or other modes) without recompiling.
	GinMode = strings.TrimSpace(env.String("GIN_MODE", ""))

	// DebugEnabled toggles verbose structured logging when DEBUG=true.
	DebugEnabled = env.Bool("DEBUG", false)

	// MaxDelay caps the suspension requested through the delay and drip endpoints.
	MaxDelay = time.Duration(env.Float64("MAX_DELAY_SECONDS", 10) * float64(time.Second))
	// MaxRedirects caps the hop count accepted by the redirect family.
	MaxRedirects = env.Int("MAX_REDIRECTS", 20)
	// MaxStreamLines caps the line count of the NDJSON stream endpoint.
	MaxStreamLines = env.Int("MAX_STREAM_LINES", 100)
	// MaxBytes caps the payload size of the bytes, stream-bytes, drip and range endpoints.
	MaxBytes = env.Int("MAX_BYTES", 100*1024)
	// MaxDripDuration bounds the total pacing window of the drip endpoint.
	MaxDripDuration = time.Duration(env.Float64("MAX_DRIP_DURATION_SECONDS", 60) * float64(time.Second))

	// DigestNonceTTL controls how long issued digest-auth nonces stay usable.
	DigestNonceTTL = time.Duration(env.Int("DIGEST_NONCE_TTL_SECONDS", 600)) * time.Second

	// EnablePrometheusMetrics exposes /metrics and per-request metrics when true.
	EnablePrometheusMetrics = env.Bool("ENABLE_PROMETHEUS_METRICS", false)

	// OnlyOneLogFile uses a single log file instead of a dated file per day.
	OnlyOneLogFile = env.Bool("ONLY_ONE_LOG_FILE", false)

	// ShutdownTimeout bounds graceful drain after SIGINT/SIGTERM.
	ShutdownTimeout = time.Duration(env.Int("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second
)
