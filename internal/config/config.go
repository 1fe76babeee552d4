package config

import "time"

const (
	// Pagination
	DefaultPageSize = 10
	MaxPageSize     = 100

	// Nearby queries
	DefaultNearbyRadiusKm = 5.0

	// AI categorization: suggestions at or above this confidence may set the
	// complaint category automatically.
	AIConfidenceThreshold = 0.7

	// Trending: an upvote loses half its weight every half-life.
	TrendingHalfLife = 7 * 24 * time.Hour

	// Cache TTLs
	CacheShort  = 60 * time.Second
	CacheMedium = 5 * time.Minute
	CacheLong   = time.Hour

	// Uploads
	MaxImagesPerComplaint = 5
)

// AICategoryPolicy controls whether a high-confidence AI suggestion replaces
// the category the user picked, or only fills in when the user left it as
// "other".
type AICategoryPolicy string

const (
	AIPolicyOverwrite AICategoryPolicy = "overwrite"
	AIPolicyFillOther AICategoryPolicy = "fill-other"
)

// DefaultAICategoryPolicy applies when the environment does not override it.
const DefaultAICategoryPolicy = AIPolicyOverwrite
