package result

import "github.com/awaismughal2020/prodex/internal/domain/product"

// Scored is a single normalized search hit. Transient: created per response,
// never persisted. The score is index-assigned and comparable only within
// the same query.
type Scored struct {
	product       product.Product
	score         float64
	matchedFields []string
}

// NewScored creates a scored result.
func NewScored(p product.Product, score float64, matchedFields []string) Scored {
	return Scored{product: p, score: score, matchedFields: matchedFields}
}

// Product returns the matched product.
func (s *Scored) Product() product.Product { return s.product }

// Score returns the relevance score.
func (s *Scored) Score() float64 { return s.score }

// MatchedFields returns the fields the query matched on.
func (s *Scored) MatchedFields() []string { return s.matchedFields }

// Hit is a raw index hit before normalization.
type Hit struct {
	Product       product.Product
	Score         float64
	MatchedFields []string
}

// FacetCount is one raw facet value and the number of hits carrying it.
type FacetCount struct {
	Value string
	Count int
}

// Raw is the unnormalized index response: hits in index order plus raw
// per-value facet counts.
type Raw struct {
	Total  int
	Hits   []Hit
	Facets map[string][]FacetCount
}

// Bucket is one facet bucket: a label and the number of hits in it.
type Bucket struct {
	Label string
	Count int
}

// Page is a normalized search response page.
type Page struct {
	Found   int
	Results []Scored
	Facets  map[string][]Bucket
}
