package search

import (
	"fmt"

	"github.com/awaismughal2020/prodex/internal/domain"
	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/query"
	"github.com/awaismughal2020/prodex/internal/domain/search/request"
	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
)

// Compile translates a search request into a compiled index query. The weight
// table is carried verbatim into per-field specs; structured predicates become
// an AND filter expression. An empty free-text query compiles to a match-all
// that still applies the filters. Malformed predicates fail with
// domain.ErrInvalidFilter.
func Compile(
	req *request.Request, table weights.Table, facets []string,
) (query.Compiled, error) {
	var b filter.Builder
	expr, err := b.
		Category(req.Category()).
		PriceRange(req.MinPrice(), req.MaxPrice()).
		MinRating(req.MinRating()).
		Tags(req.Tags()).
		Build()
	if err != nil {
		return query.Compiled{}, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}

	var fields []query.FieldSpec
	if req.Query() != "" {
		fields = make([]query.FieldSpec, 0, len(table.Fields()))
		for _, f := range table.Fields() {
			fields = append(fields, query.FieldSpec{
				Name:   f.Name(),
				Weight: f.Weight(),
				Prefix: f.Prefix(),
				Typo:   f.Typo(),
			})
		}
	}

	c, err := query.New(
		req.Query(), fields, expr, query.SortRelevance,
		req.Offset(), req.PageSize(), facets,
		table.MinLen1Typo(), table.MinLen2Typo(),
	)
	if err != nil {
		return query.Compiled{}, fmt.Errorf("compile query: %w", err)
	}
	return c, nil
}
