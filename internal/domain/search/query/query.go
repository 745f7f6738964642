package query

import (
	"fmt"

	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
)

// Sort is the result ordering requested from the index.
type Sort string

// Sort keys.
const (
	// SortRelevance orders by the index relevance score.
	SortRelevance Sort = "relevance"
	// SortRating orders by rating descending.
	SortRating Sort = "rating"
	// SortNewest orders by creation time descending.
	SortNewest Sort = "newest"
)

// IsValid checks if the sort is one of the supported values.
func (s Sort) IsValid() bool {
	return s == SortRelevance || s == SortRating || s == SortNewest
}

// FieldSpec is one searchable field of a compiled query: the field name, its
// relevance weight, whether prefix matching applies, and the typo tolerance
// cap the index may use for its tokens.
type FieldSpec struct {
	Name   string
	Weight float64
	Prefix bool
	Typo   weights.TypoLevel
}

// Compiled is the fully-resolved query sent to the index. Immutable once
// built; one Compiled per search request, never reused across requests.
type Compiled struct {
	terms       string
	fields      []FieldSpec
	filters     filter.Expression
	sort        Sort
	offset      int
	limit       int
	facets      []string
	minLen1Typo int
	minLen2Typo int
}

// New validates and creates a compiled query. Empty terms mean match-all.
// minLen1Typo/minLen2Typo are the token length thresholds gating typo
// tolerance; tokens shorter than minLen1Typo always match exactly.
func New(
	terms string,
	fields []FieldSpec,
	filters filter.Expression,
	sort Sort,
	offset, limit int,
	facets []string,
	minLen1Typo, minLen2Typo int,
) (Compiled, error) {
	if terms != "" && len(fields) == 0 {
		return Compiled{}, fmt.Errorf("at least one search field is required")
	}
	if sort == "" {
		sort = SortRelevance
	}
	if !sort.IsValid() {
		return Compiled{}, fmt.Errorf("invalid sort key: %q", sort)
	}
	if offset < 0 {
		return Compiled{}, fmt.Errorf("offset must be non-negative")
	}
	if limit <= 0 {
		return Compiled{}, fmt.Errorf("limit must be positive")
	}
	if minLen1Typo <= 0 {
		minLen1Typo = weights.DefaultMinLen1Typo
	}
	if minLen2Typo <= 0 {
		minLen2Typo = weights.DefaultMinLen2Typo
	}
	fs := make([]FieldSpec, len(fields))
	copy(fs, fields)
	return Compiled{
		terms:       terms,
		fields:      fs,
		filters:     filters,
		sort:        sort,
		offset:      offset,
		limit:       limit,
		facets:      facets,
		minLen1Typo: minLen1Typo,
		minLen2Typo: minLen2Typo,
	}, nil
}

// Terms returns the tokenizable query text. Empty means match-all.
func (c *Compiled) Terms() string { return c.terms }

// MatchAll reports whether the query has no text terms.
func (c *Compiled) MatchAll() bool { return c.terms == "" }

// Fields returns the weighted field specs in table order.
func (c *Compiled) Fields() []FieldSpec { return c.fields }

// Filters returns the filter expression.
func (c *Compiled) Filters() filter.Expression { return c.filters }

// Sort returns the requested ordering.
func (c *Compiled) Sort() Sort { return c.sort }

// Offset returns the zero-based hit offset.
func (c *Compiled) Offset() int { return c.offset }

// Limit returns the maximum number of hits.
func (c *Compiled) Limit() int { return c.limit }

// Facets returns the facet fields to count.
func (c *Compiled) Facets() []string { return c.facets }

// MinLen1Typo returns the minimum token length for one allowed edit.
func (c *Compiled) MinLen1Typo() int { return c.minLen1Typo }

// MinLen2Typo returns the minimum token length for two allowed edits.
func (c *Compiled) MinLen2Typo() int { return c.minLen2Typo }

// AllowedTypos returns the typo budget for a token in a field: the field's
// cap, further reduced for short tokens.
func (c *Compiled) AllowedTypos(f FieldSpec, tokenLen int) weights.TypoLevel {
	allowed := f.Typo
	switch {
	case tokenLen < c.minLen1Typo:
		allowed = weights.TypoNone
	case tokenLen < c.minLen2Typo:
		if allowed > weights.TypoOne {
			allowed = weights.TypoOne
		}
	}
	return allowed
}
