package request

import "fmt"

// Pagination limits.
const (
	MaxQueryLength  = 1024
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Request is a validated product search query. The free-text query may be
// empty, meaning "match everything" — filters still apply.
type Request struct {
	query     string
	category  string
	minPrice  *float64
	maxPrice  *float64
	minRating *float64
	tags      []string
	page      int
	pageSize  int
}

// New validates and normalizes search parameters. Zero page/pageSize take
// the defaults; explicit non-positive or oversized values are rejected.
// Predicate-level validation (price bounds, rating range) happens when the
// filter expression is built by the compiler.
func New(
	query, category string,
	minPrice, maxPrice, minRating *float64,
	tags []string,
	page, pageSize int,
	maxPageSize int,
) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if page == 0 {
		page = DefaultPage
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 0 {
		return Request{}, fmt.Errorf("page must be positive")
	}
	if pageSize < 0 {
		return Request{}, fmt.Errorf("page size must be positive")
	}
	if pageSize > maxPageSize {
		return Request{}, fmt.Errorf("page size exceeds maximum %d", maxPageSize)
	}

	return Request{
		query:     query,
		category:  category,
		minPrice:  minPrice,
		maxPrice:  maxPrice,
		minRating: minRating,
		tags:      tags,
		page:      page,
		pageSize:  pageSize,
	}, nil
}

// Query returns the free-text query. Empty means match-all.
func (r *Request) Query() string { return r.query }

// Category returns the category filter; empty means no filter.
func (r *Request) Category() string { return r.category }

// MinPrice returns the price floor (nil = unbounded).
func (r *Request) MinPrice() *float64 { return r.minPrice }

// MaxPrice returns the price ceiling (nil = unbounded).
func (r *Request) MaxPrice() *float64 { return r.maxPrice }

// MinRating returns the rating floor (nil = none).
func (r *Request) MinRating() *float64 { return r.minRating }

// Tags returns the tag membership filter.
func (r *Request) Tags() []string { return r.tags }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the zero-based hit offset for the page.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }
