package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/awaismughal2020/prodex/internal/domain/product"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
)

// Content-similarity scoring weights.
const (
	DefaultTagWeight      = 0.6
	DefaultCategoryWeight = 0.3
	DefaultBrandWeight    = 0.1
)

// poolMultiplier oversizes candidate pool fetches so that exclusions and
// zero-score pruning still leave enough candidates.
const poolMultiplier = 5

// ContentSimilarity recommends products that look like the source: shared
// tags weigh most, same category and same brand add smaller bonuses.
type ContentSimilarity struct {
	gw                                     Gateway
	tagWeight, categoryWeight, brandWeight float64
}

// NewContentSimilarity creates the content-similarity strategy with default
// scoring weights.
func NewContentSimilarity(gw Gateway) *ContentSimilarity {
	return &ContentSimilarity{
		gw:             gw,
		tagWeight:      DefaultTagWeight,
		categoryWeight: DefaultCategoryWeight,
		brandWeight:    DefaultBrandWeight,
	}
}

// WithWeights overrides the tag/category/brand scoring weights.
func (s *ContentSimilarity) WithWeights(tag, category, brand float64) *ContentSimilarity {
	s.tagWeight, s.categoryWeight, s.brandWeight = tag, category, brand
	return s
}

// Name implements Strategy.
func (s *ContentSimilarity) Name() domrec.StrategyName { return domrec.StrategyContent }

// Recommend fetches tag- and category-matching pools, scores each distinct
// candidate and keeps the best limit. Candidates with no overlap at all are
// dropped rather than padded in.
func (s *ContentSimilarity) Recommend(
	ctx context.Context, source product.Product, limit int,
) ([]domrec.Candidate, error) {
	poolSize := limit * poolMultiplier

	pool := make(map[string]product.Product)

	if len(source.Tags()) > 0 {
		byTags, err := s.gw.ByTags(ctx, source.Tags(), poolSize)
		if err != nil {
			return nil, fmt.Errorf("tag pool: %w", err)
		}
		for _, p := range byTags {
			pool[p.ID()] = p
		}
	}

	if source.Category() != "" {
		byCategory, err := s.gw.ByCategory(ctx, source.Category(), poolSize)
		if err != nil {
			return nil, fmt.Errorf("category pool: %w", err)
		}
		for _, p := range byCategory {
			pool[p.ID()] = p
		}
	}

	out := make([]domrec.Candidate, 0, len(pool))
	for _, p := range pool {
		if p.ID() == source.ID() {
			continue
		}
		score := s.score(source, p)
		if score == 0 {
			continue
		}
		out = append(out, domrec.NewCandidate(p, score, domrec.StrategyContent))
	}

	sortCandidates(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// score combines tag-set Jaccard similarity with category and brand match
// bonuses.
func (s *ContentSimilarity) score(source, candidate product.Product) float64 {
	score := s.tagWeight * jaccard(source.Tags(), candidate.Tags())
	if source.Category() != "" && source.Category() == candidate.Category() {
		score += s.categoryWeight
	}
	if source.Brand() != "" && source.Brand() == candidate.Brand() {
		score += s.brandWeight
	}
	return score
}

// jaccard computes |a∩b| / |a∪b| over tag sets. Two empty sets score zero.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// sortCandidates orders by score desc, then rating desc, then id asc.
func sortCandidates(cands []domrec.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score() != cands[j].Score() {
			return cands[i].Score() > cands[j].Score()
		}
		pi, pj := cands[i].Product(), cands[j].Product()
		if pi.Rating() != pj.Rating() {
			return pi.Rating() > pj.Rating()
		}
		return pi.ID() < pj.ID()
	})
}
