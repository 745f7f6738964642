package search

import (
	"context"
	"testing"

	"github.com/awaismughal2020/prodex/internal/domain/product"
	"github.com/awaismughal2020/prodex/internal/domain/search/query"
	"github.com/awaismughal2020/prodex/internal/domain/search/request"
	"github.com/awaismughal2020/prodex/internal/domain/search/result"
)

// mockGateway implements the index contract for tests.
type mockGateway struct {
	searchFn func(ctx context.Context, c *query.Compiled) (*result.Raw, error)
}

func (m *mockGateway) Search(ctx context.Context, c *query.Compiled) (*result.Raw, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, c)
	}
	return &result.Raw{}, nil
}

func floatPtr(v float64) *float64 { return &v }

func testRequest(t *testing.T, q string, opts ...func(*reqParams)) *request.Request {
	t.Helper()
	p := reqParams{query: q}
	for _, o := range opts {
		o(&p)
	}
	req, err := request.New(
		p.query, p.category, p.minPrice, p.maxPrice, p.minRating,
		p.tags, p.page, p.pageSize, 0,
	)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return &req
}

type reqParams struct {
	query, category               string
	minPrice, maxPrice, minRating *float64
	tags                          []string
	page, pageSize                int
}

func withCategory(c string) func(*reqParams) {
	return func(p *reqParams) { p.category = c }
}

func withPriceRange(minPrice, maxPrice float64) func(*reqParams) {
	return func(p *reqParams) {
		p.minPrice = floatPtr(minPrice)
		p.maxPrice = floatPtr(maxPrice)
	}
}

func withMinRating(r float64) func(*reqParams) {
	return func(p *reqParams) { p.minRating = floatPtr(r) }
}

func withTags(tags ...string) func(*reqParams) {
	return func(p *reqParams) { p.tags = tags }
}

func withPage(page, pageSize int) func(*reqParams) {
	return func(p *reqParams) {
		p.page = page
		p.pageSize = pageSize
	}
}

func catalogProduct(t *testing.T, id, name, category string, price, rating float64, tags ...string) product.Product {
	t.Helper()
	return product.Reconstruct(
		id, name, "", category, price, rating, tags,
		"", 0, "", nil, true, 1700000000,
	)
}

func rawHit(t *testing.T, p product.Product, score float64, matched ...string) result.Hit {
	t.Helper()
	return result.Hit{Product: p, Score: score, MatchedFields: matched}
}
