package recommend

import (
	"context"
	"fmt"

	"github.com/awaismughal2020/prodex/internal/domain/product"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
)

// RatingPopularity recommends the globally best rated products regardless of
// category. It is the cold-start fallback: it always has candidates as long
// as the index is non-empty.
type RatingPopularity struct {
	gw Gateway
}

// NewRatingPopularity creates the rating-popularity strategy.
func NewRatingPopularity(gw Gateway) *RatingPopularity {
	return &RatingPopularity{gw: gw}
}

// Name implements Strategy.
func (s *RatingPopularity) Name() domrec.StrategyName { return domrec.StrategyPopularity }

// Recommend returns the top rated products, source excluded.
func (s *RatingPopularity) Recommend(
	ctx context.Context, source product.Product, limit int,
) ([]domrec.Candidate, error) {
	pool, err := s.gw.TopRated(ctx, limit+1)
	if err != nil {
		return nil, fmt.Errorf("top rated pool: %w", err)
	}

	out := make([]domrec.Candidate, 0, limit)
	for _, p := range pool {
		if p.ID() == source.ID() {
			continue
		}
		out = append(out, domrec.NewCandidate(p, p.Rating(), domrec.StrategyPopularity))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
