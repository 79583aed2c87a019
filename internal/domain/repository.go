package domain

import (
	"context"
	"time"
)

// CatalogRepository defines the read-only view of the marketplace catalog.
// Implementations fetch all active listings published by one seller; this
// subsystem never writes back.
type CatalogRepository interface {
	ListActiveListings(ctx context.Context, sellerID int64) ([]ListingSummary, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
