package constants

import "time"

const (
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 6
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	BcryptCost = 12

	DefaultMaxRequestSize = 1 << 20

	DefaultHTTPPort       = "8080"
	DefaultAccessTokenTTL = 30 * time.Minute
	DefaultRequestTimeout = 5 * time.Second

	DBPoolMaxConns          = 25
	DBPoolMinConns          = 5
	DBPoolConnMaxLifetime   = time.Hour
	DBPoolConnMaxIdleTime   = 30 * time.Minute
	DBPoolHealthCheckPeriod = time.Minute
	DBPoolConnectTimeout    = 5 * time.Second
	DBPoolMaxAttempts       = 10
	DBPoolRetryDelay        = time.Second
	DBPoolMetricsInterval   = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	RateLimitCleanupInterval = 5 * time.Minute

	RateLimitLoginRequestsPerSecond    = 1.0
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 0.5
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 20.0
	RateLimitGeneralBurst              = 40

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
