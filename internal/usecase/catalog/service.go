package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/awaismughal2020/prodex/internal/domain"
	"github.com/awaismughal2020/prodex/internal/domain/product"
)

// DefaultPageSize is the product listing page size.
const DefaultPageSize = 20

// MaxPageSize caps the product listing page size.
const MaxPageSize = 100

// Service manages the product catalog.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a catalog service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores a new product. An existing id is rejected; Update is the
// explicit path for replacing one.
func (s *Service) Create(ctx context.Context, p *product.Product) error {
	exists, err := s.repo.Exists(ctx, p.ID())
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if exists {
		return fmt.Errorf("product %s: %w", p.ID(), domain.ErrAlreadyExists)
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("store product: %w", err)
	}
	return nil
}

// Update replaces a stored product.
func (s *Service) Update(ctx context.Context, p *product.Product) error {
	exists, err := s.repo.Exists(ctx, p.ID())
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return fmt.Errorf("product %s: %w", p.ID(), domain.ErrProductNotFound)
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("store product: %w", err)
	}
	return nil
}

// Upsert stores a product, replacing any existing one with the same id.
func (s *Service) Upsert(ctx context.Context, p *product.Product) error {
	if err := s.repo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("store product: %w", err)
	}
	return nil
}

// Get fetches one product by id.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// List returns one page of products, newest first, plus the total count.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]product.Product, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.repo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return items, total, nil
}

// Count returns the number of products in the catalog.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Categories returns the distinct categories present in the catalog.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Seed loads the demo products, skipping ids that already exist.
func (s *Service) Seed(ctx context.Context) error {
	for _, p := range seedProducts() {
		err := s.Create(ctx, &p)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", p.ID(), err)
		}
		s.logger.Info("Seeded product", zap.String("id", p.ID()), zap.String("name", p.Name()))
	}
	return nil
}
