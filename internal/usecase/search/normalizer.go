package search

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/result"
)

// DefaultPriceBounds are the default price facet bucket boundaries. Each
// boundary opens a bucket reaching to the next one; the last bucket is open
// ended.
var DefaultPriceBounds = []float64{0, 50, 200, 1000}

// normalize turns a raw index response into a response page: hits ordered by
// score desc with rating desc then id asc tie-breaks, facet counts reshaped
// into buckets, price values folded into the configured ranges.
func normalize(raw *result.Raw, priceBounds []float64) (*result.Page, error) {
	hits := make([]result.Scored, len(raw.Hits))
	for i, h := range raw.Hits {
		hits[i] = result.NewScored(h.Product, h.Score, h.MatchedFields)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		pi, pj := hits[i].Product(), hits[j].Product()
		if pi.Rating() != pj.Rating() {
			return pi.Rating() > pj.Rating()
		}
		return pi.ID() < pj.ID()
	})

	page := &result.Page{Found: raw.Total, Results: hits}

	if len(raw.Facets) > 0 {
		page.Facets = make(map[string][]result.Bucket, len(raw.Facets))
		for field, counts := range raw.Facets {
			var (
				buckets []result.Bucket
				err     error
			)
			if field == filter.KeyPrice {
				buckets, err = bucketPrices(counts, priceBounds, raw.Total)
			} else {
				buckets = bucketValues(counts)
			}
			if err != nil {
				return nil, fmt.Errorf("facet %s: %w", field, err)
			}
			page.Facets[field] = buckets
		}
	}

	return page, nil
}

// bucketValues passes categorical facet counts through, largest first.
func bucketValues(counts []result.FacetCount) []result.Bucket {
	out := make([]result.Bucket, 0, len(counts))
	for _, c := range counts {
		out = append(out, result.Bucket{Label: c.Value, Count: c.Count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// bucketPrices folds per-value price counts into range buckets. Every stored
// product carries a price, so the bucket sum must reconcile with the total
// match count; a mismatch means the facet aggregation lost values.
func bucketPrices(counts []result.FacetCount, bounds []float64, totalFound int) ([]result.Bucket, error) {
	if len(bounds) == 0 {
		bounds = DefaultPriceBounds
	}

	buckets := make([]result.Bucket, len(bounds))
	for i, lo := range bounds {
		if i+1 < len(bounds) {
			buckets[i].Label = formatBound(lo) + "-" + formatBound(bounds[i+1])
		} else {
			buckets[i].Label = formatBound(lo) + "+"
		}
	}

	for _, c := range counts {
		price, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("unparseable price value %q", c.Value)
		}
		idx := 0
		for i := len(bounds) - 1; i >= 0; i-- {
			if price >= bounds[i] {
				idx = i
				break
			}
		}
		buckets[idx].Count += c.Count
	}

	sum := 0
	for _, b := range buckets {
		sum += b.Count
	}
	if sum != totalFound {
		return nil, fmt.Errorf("bucket counts sum to %d, expected %d matches", sum, totalFound)
	}

	return buckets, nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
