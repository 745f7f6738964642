package domain

import "errors"

var (
	// ErrInvalidFilter signals a malformed or contradictory search filter.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrAlreadyExists signals a duplicate product.
	ErrAlreadyExists = errors.New("already exists")
	// ErrIndexUnavailable signals the index cannot be reached.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrIndexQuery signals the index rejected a compiled query.
	ErrIndexQuery = errors.New("index rejected query")
	// ErrRecommendationUnavailable signals that every recommendation strategy failed.
	ErrRecommendationUnavailable = errors.New("recommendations unavailable")
)
