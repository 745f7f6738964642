package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/awaismughal2020/prodex/internal/domain/product"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
)

// CategoryAffinity recommends the best rated products from the source's own
// category, newest first among equal ratings.
type CategoryAffinity struct {
	gw Gateway
}

// NewCategoryAffinity creates the category-affinity strategy.
func NewCategoryAffinity(gw Gateway) *CategoryAffinity {
	return &CategoryAffinity{gw: gw}
}

// Name implements Strategy.
func (s *CategoryAffinity) Name() domrec.StrategyName { return domrec.StrategyCategory }

// Recommend returns the top rated products sharing the source's category.
// A source without a category yields no candidates.
func (s *CategoryAffinity) Recommend(
	ctx context.Context, source product.Product, limit int,
) ([]domrec.Candidate, error) {
	if source.Category() == "" {
		return nil, nil
	}

	pool, err := s.gw.ByCategory(ctx, source.Category(), limit*poolMultiplier)
	if err != nil {
		return nil, fmt.Errorf("category pool: %w", err)
	}

	kept := make([]product.Product, 0, len(pool))
	for _, p := range pool {
		if p.ID() == source.ID() {
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Rating() != kept[j].Rating() {
			return kept[i].Rating() > kept[j].Rating()
		}
		if kept[i].CreatedAt() != kept[j].CreatedAt() {
			return kept[i].CreatedAt() > kept[j].CreatedAt()
		}
		return kept[i].ID() < kept[j].ID()
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]domrec.Candidate, len(kept))
	for i, p := range kept {
		out[i] = domrec.NewCandidate(p, p.Rating(), domrec.StrategyCategory)
	}
	return out, nil
}
