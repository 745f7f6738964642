package recommend

import "github.com/awaismughal2020/prodex/internal/domain/product"

// StrategyName identifies a recommendation strategy.
type StrategyName string

// Strategy names.
const (
	// StrategyContent scores candidates by tag/category/brand similarity to the source.
	StrategyContent StrategyName = "content_similarity"
	// StrategyCategory ranks products from the source's category.
	StrategyCategory StrategyName = "category_affinity"
	// StrategyPopularity ranks globally top-rated products as a cold-start fallback.
	StrategyPopularity StrategyName = "rating_popularity"
)

// Candidate is one strategy's scored suggestion. Scores are raw and only
// comparable within the same strategy call; the blender normalizes them
// before combining. Multiple candidates may share a product id before
// blending; afterwards each id appears at most once.
type Candidate struct {
	product  product.Product
	score    float64
	strategy StrategyName
}

// NewCandidate creates a recommendation candidate.
func NewCandidate(p product.Product, score float64, strategy StrategyName) Candidate {
	return Candidate{product: p, score: score, strategy: strategy}
}

// Product returns the candidate product.
func (c *Candidate) Product() product.Product { return c.product }

// Score returns the raw per-strategy score.
func (c *Candidate) Score() float64 { return c.score }

// Strategy returns the strategy that produced the candidate.
func (c *Candidate) Strategy() StrategyName { return c.strategy }
