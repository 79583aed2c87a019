package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSellerNotFound is returned when the catalog has no such seller
	ErrSellerNotFound = errors.New("seller not found in catalog")

	// ErrCatalogUnavailable is returned when the catalog API request fails
	ErrCatalogUnavailable = errors.New("catalog API request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
