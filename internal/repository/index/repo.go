package index

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/awaismughal2020/prodex/internal/db"
	"github.com/awaismughal2020/prodex/internal/domain"
	"github.com/awaismughal2020/prodex/internal/domain/product"
	"github.com/awaismughal2020/prodex/internal/domain/search/filter"
	"github.com/awaismughal2020/prodex/internal/domain/search/query"
	"github.com/awaismughal2020/prodex/internal/domain/search/result"
	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
)

// DefaultKeyPrefix prefixes product hash keys.
const DefaultKeyPrefix = "prodex:products:"

// DefaultCacheSize is the default product lookup cache capacity.
const DefaultCacheSize = 1024

// maxPoolSize caps candidate pool queries.
const maxPoolSize = 500

// store is the consumer interface for index operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	Facet(ctx context.Context, q *db.FacetQuery) ([]db.FacetCount, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo is the Index Gateway: it executes compiled queries and point lookups
// against the product index and maintains the stored documents.
type Repo struct {
	store     store
	keyPrefix string
	cache     *lru.Cache[string, product.Product]
}

// New creates an index gateway with a product lookup cache.
func New(s store) *Repo {
	cache, err := lru.New[string, product.Product](DefaultCacheSize)
	if err != nil {
		panic(err) // only fails on non-positive size
	}
	return &Repo{store: s, keyPrefix: DefaultKeyPrefix, cache: cache}
}

// WithKeyPrefix overrides the hash key prefix.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.keyPrefix = prefix
	}
	return r
}

// WithCacheSize resizes the product lookup cache.
func (r *Repo) WithCacheSize(size int) *Repo {
	if size > 0 {
		r.cache.Resize(size)
	}
	return r
}

func (r *Repo) indexName() string { return r.keyPrefix + "idx" }

func (r *Repo) key(id string) string { return r.keyPrefix + id }

// EnsureSchema provisions the product FT index if it does not exist. Every
// weight-table field is indexed as TEXT under its own name so relevance
// ranking happens inside the index with the table's weights. Tags and brand
// additionally get TAG twins under aliased attributes for exact filtering.
func (r *Repo) EnsureSchema(ctx context.Context, table weights.Table) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return r.mapErr(fmt.Errorf("probe index: %w", err))
	}
	if exists {
		return nil
	}

	b := db.NewIndex(r.indexName()).Prefix(r.keyPrefix)
	for _, f := range table.Fields() {
		b.Text(f.Name(), f.Weight())
	}
	b.Tag(fieldCategory).
		TagWithSeparatorAs(fieldTags, db.TagAlias(fieldTags), tagJoin).
		TagAs(fieldBrand, db.TagAlias(fieldBrand)).
		TagWithSeparator(fieldColors, tagJoin).
		Tag(fieldInStock).
		SortableNumeric(fieldPrice).
		SortableNumeric(fieldRating).
		SortableNumeric(fieldCreatedAt)

	def, err := b.Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return r.mapErr(fmt.Errorf("create index: %w", err))
	}
	return nil
}

// Search executes a compiled query and returns raw hits plus facet counts.
func (r *Repo) Search(ctx context.Context, c *query.Compiled) (*result.Raw, error) {
	sr, err := r.store.Search(ctx, &db.TextQuery{IndexName: r.indexName(), Query: c})
	if err != nil {
		return nil, r.mapErr(fmt.Errorf("search: %w", err))
	}

	tokens := db.Tokenize(c.Terms())
	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix)
		p := productFromFields(id, entry.Fields)
		hits = append(hits, result.Hit{
			Product:       p,
			Score:         entry.Score,
			MatchedFields: matchedFields(c.Fields(), tokens, entry.Fields),
		})
	}

	raw := &result.Raw{Total: sr.Total, Hits: hits}

	if len(c.Facets()) > 0 {
		raw.Facets = make(map[string][]result.FacetCount, len(c.Facets()))
		for _, field := range c.Facets() {
			counts, err := r.store.Facet(ctx, &db.FacetQuery{
				IndexName: r.indexName(), Query: c, Field: field,
			})
			if err != nil {
				return nil, r.mapErr(fmt.Errorf("facet %s: %w", field, err))
			}
			out := make([]result.FacetCount, len(counts))
			for i, fc := range counts {
				out[i] = result.FacetCount{Value: fc.Value, Count: fc.Count}
			}
			raw.Facets[field] = out
		}
	}

	return raw, nil
}

// GetByID fetches one product, read-through cached.
func (r *Repo) GetByID(ctx context.Context, id string) (product.Product, error) {
	if p, ok := r.cache.Get(id); ok {
		return p, nil
	}

	fields, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return product.Product{}, r.mapErr(fmt.Errorf("get %s: %w", id, err))
	}
	if len(fields) == 0 {
		return product.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}

	p := productFromFields(id, fields)
	r.cache.Add(id, p)
	return p, nil
}

// Exists reports whether a product is stored.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	if r.cache.Contains(id) {
		return true, nil
	}
	ok, err := r.store.Exists(ctx, r.key(id))
	if err != nil {
		return false, r.mapErr(fmt.Errorf("exists %s: %w", id, err))
	}
	return ok, nil
}

// Upsert stores a product document; the FT index picks it up by key prefix.
func (r *Repo) Upsert(ctx context.Context, p *product.Product) error {
	if err := r.store.HSet(ctx, r.key(p.ID()), productToFields(p)); err != nil {
		return r.mapErr(fmt.Errorf("upsert %s: %w", p.ID(), err))
	}
	r.cache.Remove(p.ID())
	return nil
}

// Delete removes a product document.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, r.key(id))
	if err != nil {
		return r.mapErr(fmt.Errorf("exists %s: %w", id, err))
	}
	if !ok {
		return fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return r.mapErr(fmt.Errorf("delete %s: %w", id, err))
	}
	r.cache.Remove(id)
	return nil
}

// Count returns the total number of indexed products.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, r.mapErr(fmt.Errorf("count: %w", err))
	}
	return n, nil
}

// List returns a page of products, newest first.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]product.Product, int, error) {
	c, err := query.New("", nil, filter.Expression{}, query.SortNewest, offset, limit, nil, 0, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	sr, err := r.store.Search(ctx, &db.TextQuery{IndexName: r.indexName(), Query: &c})
	if err != nil {
		return nil, 0, r.mapErr(fmt.Errorf("list: %w", err))
	}

	out := make([]product.Product, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix)
		out = append(out, productFromFields(id, entry.Fields))
	}
	return out, sr.Total, nil
}

// Categories returns the distinct category values in the index.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	c, err := query.New("", nil, filter.Expression{}, query.SortRelevance, 0, 1, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("build categories query: %w", err)
	}

	counts, err := r.store.Facet(ctx, &db.FacetQuery{
		IndexName: r.indexName(), Query: &c, Field: fieldCategory,
	})
	if err != nil {
		return nil, r.mapErr(fmt.Errorf("categories: %w", err))
	}

	out := make([]string, 0, len(counts))
	for _, fc := range counts {
		if fc.Value != "" {
			out = append(out, fc.Value)
		}
	}
	return out, nil
}

// ByTags returns products carrying any of the given tags, best rated first.
func (r *Repo) ByTags(ctx context.Context, tags []string, limit int) ([]product.Product, error) {
	cond, err := filter.NewMatchAny(filter.KeyTags, tags)
	if err != nil {
		return nil, fmt.Errorf("tags filter: %w", err)
	}
	expr, err := filter.NewExpression([]filter.Condition{cond})
	if err != nil {
		return nil, fmt.Errorf("tags filter: %w", err)
	}
	return r.pool(ctx, expr, limit)
}

// ByCategory returns products from one category, best rated first.
func (r *Repo) ByCategory(ctx context.Context, category string, limit int) ([]product.Product, error) {
	var b filter.Builder
	expr, err := b.Category(category).Build()
	if err != nil {
		return nil, fmt.Errorf("category filter: %w", err)
	}
	return r.pool(ctx, expr, limit)
}

// TopRated returns the globally best rated products.
func (r *Repo) TopRated(ctx context.Context, limit int) ([]product.Product, error) {
	return r.pool(ctx, filter.Expression{}, limit)
}

func (r *Repo) pool(ctx context.Context, expr filter.Expression, limit int) ([]product.Product, error) {
	if limit <= 0 || limit > maxPoolSize {
		limit = maxPoolSize
	}

	c, err := query.New("", nil, expr, query.SortRating, 0, limit, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("build pool query: %w", err)
	}

	sr, err := r.store.Search(ctx, &db.TextQuery{IndexName: r.indexName(), Query: &c})
	if err != nil {
		return nil, r.mapErr(fmt.Errorf("pool: %w", err))
	}

	out := make([]product.Product, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, r.keyPrefix)
		out = append(out, productFromFields(id, entry.Fields))
	}
	return out, nil
}

// mapErr translates db sentinel failures into the domain taxonomy.
func (r *Repo) mapErr(err error) error {
	switch {
	case errors.Is(err, db.ErrBadQuery):
		return fmt.Errorf("%w: %w", domain.ErrIndexQuery, err)
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	default:
		return err
	}
}

// matchedFields reports which searchable fields contain any query token.
// Exact and prefix matches are detected by containment; fuzzy-only matches
// are attributed to the field holding the closest text.
func matchedFields(specs []query.FieldSpec, tokens []string, fields map[string]string) []string {
	if len(tokens) == 0 {
		return nil
	}
	var out []string
	for _, spec := range specs {
		text := strings.ToLower(fields[spec.Name])
		if text == "" {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				out = append(out, spec.Name)
				break
			}
		}
	}
	return out
}
