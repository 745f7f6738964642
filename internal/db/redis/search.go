package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/awaismughal2020/prodex/internal/db"
	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/query"
	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
)

// facetLimit caps the number of distinct values returned per facet.
const facetLimit = 1000

// Search runs a compiled full-text query via FT.SEARCH.
func (s *Store) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == nil {
		return nil, fmt.Errorf("query is required")
	}

	args := []string{q.IndexName, buildQueryString(q.Query), "WITHSCORES"}
	args = append(args, sortByArgs(q.Query.Sort())...)
	args = append(args,
		"LIMIT", strconv.Itoa(q.Query.Offset()), strconv.Itoa(q.Query.Limit()),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, classify(db.OpSearch, err)
	}

	return parseSearchResult(raw)
}

// Facet counts hits per value of one facet field via FT.AGGREGATE GROUPBY.
func (s *Store) Facet(ctx context.Context, q *db.FacetQuery) ([]db.FacetCount, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == nil {
		return nil, fmt.Errorf("query is required")
	}
	if q.Field == "" {
		return nil, fmt.Errorf("facet field is required")
	}

	args := []string{
		q.IndexName, buildQueryString(q.Query),
		"GROUPBY", "1", "@" + q.Field,
		"REDUCE", "COUNT", "0", "AS", "count",
		"LIMIT", "0", strconv.Itoa(facetLimit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, classify(db.OpAggregate, err)
	}

	return parseFacetResult(raw, q.Field)
}

// SearchCount returns the hit count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, queryStr string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, queryStr, "LIMIT", "0", "0").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, classify(db.OpSearch, err)
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

func sortByArgs(s query.Sort) []string {
	switch s {
	case query.SortRating:
		return []string{"SORTBY", "rating", "DESC"}
	case query.SortNewest:
		return []string{"SORTBY", "created_at", "DESC"}
	default:
		return nil // relevance: keep the index scoring order
	}
}

// --- Result parsing ---

func parseSearchResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{Total: 0}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFacetResult(raw []rueidis.RedisMessage, field string) ([]db.FacetCount, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	// [groups, row1, row2, ...] where each row is [field, value, "count", n]
	counts := make([]db.FacetCount, 0, len(raw)-1)
	for _, row := range raw[1:] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		m := parseFieldPairs(pairs)
		value, ok := m[field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(m["count"])
		if err != nil {
			continue
		}
		counts = append(counts, db.FacetCount{Value: value, Count: n})
	}

	return counts, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query string building ---

// buildQueryString translates a compiled query into FT.SEARCH syntax: the
// filter conjunction ANDed with a disjunction of per-field token clauses.
func buildQueryString(c *query.Compiled) string {
	filterStr := buildFilter(c.Filters())
	textStr := buildTextClauses(c)

	switch {
	case filterStr == "" && textStr == "":
		return "*"
	case textStr == "":
		return filterStr
	case filterStr == "":
		return textStr
	default:
		return filterStr + " " + textStr
	}
}

// buildTextClauses shapes each token per field: exact form, prefix form for
// type-ahead fields, fuzzy forms within the token's typo budget.
func buildTextClauses(c *query.Compiled) string {
	tokens := db.Tokenize(c.Terms())
	if len(tokens) == 0 {
		return ""
	}

	clauses := make([]string, 0, len(c.Fields()))
	for _, f := range c.Fields() {
		terms := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			terms = append(terms, tokenAlternatives(c, f, tok))
		}
		clauses = append(clauses, fmt.Sprintf("@%s:(%s)", f.Name, strings.Join(terms, " ")))
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return "(" + strings.Join(clauses, " | ") + ")"
}

func tokenAlternatives(c *query.Compiled, f query.FieldSpec, tok string) string {
	alts := []string{tok}

	if f.Prefix && len(tok) >= 2 {
		alts = append(alts, tok+"*")
	}

	switch c.AllowedTypos(f, len(tok)) {
	case weights.TypoOne:
		alts = append(alts, "%"+tok+"%")
	case weights.TypoTwo:
		alts = append(alts, "%%"+tok+"%%")
	}

	if len(alts) == 1 {
		return alts[0]
	}
	return "(" + strings.Join(alts, "|") + ")"
}

// --- Filter building ---

// buildFilter translates a filter.Expression into FT.SEARCH pre-filter syntax.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, len(expr.Conditions()))
	for _, cond := range expr.Conditions() {
		if cond.IsMatch() {
			parts = append(parts, buildTagFilter(tagAttribute(cond.Key()), cond.Values()))
		} else if cond.IsRange() {
			parts = append(parts, buildNumericFilter(cond.Key(), *cond.Range()))
		}
	}

	return strings.Join(parts, " ")
}

// tagAttribute resolves the TAG attribute for a filter key. Tags and brand
// are text-indexed under their own names, so their TAG twins live at aliased
// attributes; everything else is TAG-indexed directly.
func tagAttribute(key string) string {
	switch key {
	case filter.KeyTags, filter.KeyBrand:
		return db.TagAlias(key)
	default:
		return key
	}
}

func buildTagFilter(key string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", key, strings.Join(escaped, "|"))
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GTE() != nil {
		minBound = fmt.Sprintf("%g", *r.GTE())
	}
	if r.LTE() != nil {
		maxBound = fmt.Sprintf("%g", *r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	" ", "\\ ",
)
