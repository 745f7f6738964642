package db

import "github.com/awaismughal2020/prodex/internal/domain/search/query"

// TextQuery is the input for a compiled full-text search.
type TextQuery struct {
	IndexName string
	Query     *query.Compiled
}

// FacetQuery requests per-value hit counts for one facet field, scoped to
// the same compiled query the hits came from.
type FacetQuery struct {
	IndexName string
	Query     *query.Compiled
	Field     string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// FacetCount is one facet value and the number of hits carrying it.
type FacetCount struct {
	Value string
	Count int
}
