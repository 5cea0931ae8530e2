package utils

import (
	"time"
)

// Tariff and reporting constants
const (
	// DefaultTariffPerMWh is the MYTO default tariff used to convert revenue
	// into an energy equivalent when no feeder-specific tariff applies.
	DefaultTariffPerMWh = 52000.0

	// DateLayout is the wire format for calendar dates
	DateLayout = "2006-01-02"

	// MonthAbbrLayout is the presentation format for history month labels
	MonthAbbrLayout = "Jan"

	// HistoryMonths is the number of points in a monthly history series
	HistoryMonths = 5

	// InterruptionHistoryMonths is the history depth of the technical overview
	InterruptionHistoryMonths = 4

	// TargetJitter bounds the uniform jitter applied to synthetic KPI targets
	TargetJitter = 0.1
)

// Cache constants
const (
	// OverviewCacheTTL is how long the overview response may be served stale
	OverviewCacheTTL = 5 * time.Minute

	// OverviewCacheKeyPrefix namespaces overview fingerprints in redis
	OverviewCacheKeyPrefix = "analytics:overview:"
)

// ContextKey is the type of request-scoped context value keys
type ContextKey string

// Request context keys set by the handler layer
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the default time-to-live for admin access tokens
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the default time-to-live for admin refresh tokens
	RefreshTokenTTL = 7 * 24 * time.Hour

	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Transaction retry constants
const (
	// SerializableRetries is how many times a serializable transaction is
	// retried on conflict before failing.
	SerializableRetries = 3

	// SerializableBackoffBase is the first retry delay; each retry doubles it
	SerializableBackoffBase = 100 * time.Millisecond
)
