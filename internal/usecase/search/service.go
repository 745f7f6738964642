package search

import (
	"context"
	"fmt"

	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/request"
	"github.com/awaismughal2020/prodex/internal/domain/search/result"
	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
)

// Service compiles search requests, runs them against the index and
// normalizes the response.
type Service struct {
	gw          Gateway
	table       weights.Table
	facets      []string
	priceBounds []float64
}

// New creates a search service with the default facet set and price buckets.
func New(gw Gateway, table weights.Table) *Service {
	return &Service{
		gw:          gw,
		table:       table,
		facets:      []string{filter.KeyCategory, filter.KeyPrice},
		priceBounds: DefaultPriceBounds,
	}
}

// WithFacets overrides the facet fields requested on every search.
func (s *Service) WithFacets(facets []string) *Service {
	if len(facets) > 0 {
		s.facets = facets
	}
	return s
}

// WithPriceBounds overrides the price facet bucket boundaries.
func (s *Service) WithPriceBounds(bounds []float64) *Service {
	if len(bounds) > 0 {
		s.priceBounds = bounds
	}
	return s
}

// Search executes one search request end to end: compile, query the index,
// normalize. The call either fully succeeds or returns an error; no partial
// pages.
func (s *Service) Search(ctx context.Context, req *request.Request) (*result.Page, error) {
	compiled, err := Compile(req, s.table, s.facets)
	if err != nil {
		return nil, err
	}

	raw, err := s.gw.Search(ctx, &compiled)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	page, err := normalize(raw, s.priceBounds)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return page, nil
}
