package recommend

import (
	"sort"

	"github.com/awaismughal2020/prodex/internal/domain/product"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
)

// Weights maps each strategy to its blend weight.
type Weights map[domrec.StrategyName]float64

// DefaultWeights are the default per-strategy blend weights.
func DefaultWeights() Weights {
	return Weights{
		domrec.StrategyContent:    0.5,
		domrec.StrategyCategory:   0.3,
		domrec.StrategyPopularity: 0.2,
	}
}

// Ranked is one blended recommendation: the product, its combined score and
// every strategy that proposed it.
type Ranked struct {
	Product    product.Product
	Score      float64
	Strategies []domrec.StrategyName
}

// blend combines per-strategy candidate lists into one ranked, deduplicated
// list. Scores are min-max normalized within each strategy list, weighted,
// and a product proposed by several strategies keeps its single largest
// weighted contribution. The result is independent of list order and never
// padded up to limit.
func blend(lists [][]domrec.Candidate, w Weights, limit int) []Ranked {
	type slot struct {
		product    product.Product
		score      float64
		strategies []domrec.StrategyName
	}
	slots := make(map[string]*slot)

	for _, list := range lists {
		if len(list) == 0 {
			continue
		}
		lo, hi := list[0].Score(), list[0].Score()
		for _, c := range list[1:] {
			if c.Score() < lo {
				lo = c.Score()
			}
			if c.Score() > hi {
				hi = c.Score()
			}
		}

		for _, c := range list {
			// a single-value list normalizes to 1
			norm := 1.0
			if hi > lo {
				norm = (c.Score() - lo) / (hi - lo)
			}
			contribution := w[c.Strategy()] * norm

			sl, ok := slots[c.Product().ID()]
			if !ok {
				sl = &slot{product: c.Product()}
				slots[c.Product().ID()] = sl
			}
			if contribution > sl.score {
				sl.score = contribution
			}
			sl.strategies = append(sl.strategies, c.Strategy())
		}
	}

	out := make([]Ranked, 0, len(slots))
	for _, sl := range slots {
		sort.Slice(sl.strategies, func(i, j int) bool {
			return sl.strategies[i] < sl.strategies[j]
		})
		out = append(out, Ranked{
			Product:    sl.product,
			Score:      sl.score,
			Strategies: sl.strategies,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Product.Rating() != out[j].Product.Rating() {
			return out[i].Product.Rating() > out[j].Product.Rating()
		}
		return out[i].Product.ID() < out[j].Product.ID()
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
