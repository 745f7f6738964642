package catalog

import (
	"context"

	"github.com/awaismughal2020/prodex/internal/domain/product"
)

// Repository defines the storage contract for catalog operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]product.Product, int, error)
	Count(ctx context.Context) (int, error)
	Categories(ctx context.Context) ([]string, error)
}
