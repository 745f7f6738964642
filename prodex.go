// Package prodex embeds the product search and recommendation engine in a
// Go process, without running the HTTP server. It wires the same store,
// repository, and services the server uses.
package prodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/awaismughal2020/prodex/internal/db/redis"
	"github.com/awaismughal2020/prodex/internal/domain/search/request"
	"github.com/awaismughal2020/prodex/internal/domain/search/weights"
	"github.com/awaismughal2020/prodex/internal/repository/index"
	cataloguc "github.com/awaismughal2020/prodex/internal/usecase/catalog"
	recommenduc "github.com/awaismughal2020/prodex/internal/usecase/recommend"
	searchuc "github.com/awaismughal2020/prodex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the prodex SDK entry point.
type Client struct {
	store        *dbRedis.Store
	searchSvc    *searchuc.Service
	recommendSvc *recommenduc.Service
	catalogSvc   *cataloguc.Service
}

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs        []string
	username     string
	password     string
	db           int
	keyPrefix    string
	cacheSize    int
	facets       []string
	priceBuckets []float64
	logger       *zap.Logger
}

// WithRedis configures the Redis connection.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix overrides the product key prefix (and derived index name).
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithCacheSize sets the product read-through cache capacity.
func WithCacheSize(size int) Option {
	return func(c *clientConfig) {
		c.cacheSize = size
	}
}

// WithFacets sets the facet fields returned on every search.
func WithFacets(facets ...string) Option {
	return func(c *clientConfig) {
		c.facets = facets
	}
}

// WithPriceBuckets sets the lower bounds of the price facet buckets.
func WithPriceBuckets(bounds ...float64) Option {
	return func(c *clientConfig) {
		c.priceBuckets = bounds
	}
}

// WithLogger enables structured logging. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// New creates a prodex Client, connects to the database, and ensures the
// search index schema exists.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if len(cfg.addrs) == 0 {
		return nil, errors.New("prodex: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("prodex: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("prodex: database not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repo := index.New(store)
	if cfg.keyPrefix != "" {
		repo = repo.WithKeyPrefix(cfg.keyPrefix)
	}
	if cfg.cacheSize > 0 {
		repo = repo.WithCacheSize(cfg.cacheSize)
	}

	table := weights.Default()
	if err := repo.EnsureSchema(context.Background(), table); err != nil {
		return nil, fmt.Errorf("prodex: ensure schema: %w", err)
	}

	searchSvc := searchuc.New(repo, table)
	if len(cfg.facets) > 0 {
		searchSvc = searchSvc.WithFacets(cfg.facets)
	}
	if len(cfg.priceBuckets) > 0 {
		searchSvc = searchSvc.WithPriceBounds(cfg.priceBuckets)
	}

	recommendSvc := recommenduc.New(repo, []recommenduc.Strategy{
		recommenduc.NewContentSimilarity(repo),
		recommenduc.NewCategoryAffinity(repo),
		recommenduc.NewRatingPopularity(repo),
	}, logger)

	return &Client{
		store:        store,
		searchSvc:    searchSvc,
		recommendSvc: recommendSvc,
		catalogSvc:   cataloguc.New(repo, logger),
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a product search.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	req, err := request.New(
		q.Query, q.Category,
		q.MinPrice, q.MaxPrice, q.MinRating,
		q.Tags, q.Page, q.PerPage, 0,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	page, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, len(page.Results))
	for i := range page.Results {
		hits[i] = SearchHit{
			Product:       fromDomain(page.Results[i].Product()),
			Score:         page.Results[i].Score(),
			MatchedFields: page.Results[i].MatchedFields(),
		}
	}
	facets := make(map[string][]Bucket, len(page.Facets))
	for field, buckets := range page.Facets {
		bs := make([]Bucket, len(buckets))
		for i, b := range buckets {
			bs[i] = Bucket{Label: b.Label, Count: b.Count}
		}
		facets[field] = bs
	}

	return &SearchResult{Found: page.Found, Hits: hits, Facets: facets}, nil
}

// Recommend returns blended recommendations for a source product.
func (c *Client) Recommend(ctx context.Context, productID string, limit int) (*Recommendations, error) {
	resp, err := c.recommendSvc.Recommend(ctx, productID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]Recommendation, len(resp.Items))
	for i, item := range resp.Items {
		strategies := make([]string, len(item.Strategies))
		for j, s := range item.Strategies {
			strategies[j] = string(s)
		}
		items[i] = Recommendation{
			Product:    fromDomain(item.Product),
			Score:      item.Score,
			Strategies: strategies,
		}
	}
	coverage := make(map[string]int, len(resp.Coverage))
	for name, n := range resp.Coverage {
		coverage[string(name)] = n
	}

	return &Recommendations{
		Source:   fromDomain(resp.Source),
		Items:    items,
		Coverage: coverage,
	}, nil
}

// Upsert creates or replaces a product.
func (c *Client) Upsert(ctx context.Context, p Product) error {
	dp, err := toDomain(p)
	if err != nil {
		return err
	}
	return c.catalogSvc.Upsert(ctx, &dp)
}

// Get fetches a product by ID.
func (c *Client) Get(ctx context.Context, id string) (Product, error) {
	p, err := c.catalogSvc.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return fromDomain(p), nil
}

// Delete removes a product by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.catalogSvc.Delete(ctx, id)
}

// Categories lists the distinct product categories in the catalog.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	return c.catalogSvc.Categories(ctx)
}

// Count returns the number of indexed products.
func (c *Client) Count(ctx context.Context) (int, error) {
	return c.catalogSvc.Count(ctx)
}
