package recommend

import (
	"context"
	"testing"

	"github.com/awaismughal2020/prodex/internal/domain/product"
)

// mockGateway implements the candidate pool contract for tests.
type mockGateway struct {
	getByIDFn    func(ctx context.Context, id string) (product.Product, error)
	byTagsFn     func(ctx context.Context, tags []string, limit int) ([]product.Product, error)
	byCategoryFn func(ctx context.Context, category string, limit int) ([]product.Product, error)
	topRatedFn   func(ctx context.Context, limit int) ([]product.Product, error)
}

func (m *mockGateway) GetByID(ctx context.Context, id string) (product.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return product.Product{}, nil
}

func (m *mockGateway) ByTags(ctx context.Context, tags []string, limit int) ([]product.Product, error) {
	if m.byTagsFn != nil {
		return m.byTagsFn(ctx, tags, limit)
	}
	return nil, nil
}

func (m *mockGateway) ByCategory(ctx context.Context, category string, limit int) ([]product.Product, error) {
	if m.byCategoryFn != nil {
		return m.byCategoryFn(ctx, category, limit)
	}
	return nil, nil
}

func (m *mockGateway) TopRated(ctx context.Context, limit int) ([]product.Product, error) {
	if m.topRatedFn != nil {
		return m.topRatedFn(ctx, limit)
	}
	return nil, nil
}

func catalogProduct(
	t *testing.T, id, category, brand string, rating float64, createdAt int64, tags ...string,
) product.Product {
	t.Helper()
	return product.Reconstruct(
		id, "Product "+id, "", category, 100, rating, tags,
		brand, 0, "", nil, true, createdAt,
	)
}
