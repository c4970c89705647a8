package utils

import (
	"time"
)

// Cache constants
const (
	// ConfigCacheTTL is how long the global pricing configuration stays cached
	ConfigCacheTTL = 5 * time.Minute

	// ConfigCacheKey is the redis key holding the cached global pricing configuration
	ConfigCacheKey = "pricing:config:global"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Pricing constants
const (
	// EuroCurrency is the currency code quotes are denominated in
	EuroCurrency = "EUR"

	// MinutesPerHour converts printing setup minutes to billable hours
	MinutesPerHour = 60

	// ConfigGlobalID is the fixed primary key of the global configuration singleton row
	ConfigGlobalID = 1
)
