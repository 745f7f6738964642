package recommend

import (
	"context"

	"github.com/awaismughal2020/prodex/internal/domain/product"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
)

// Gateway defines the index contract for recommendation candidate pools.
type Gateway interface {
	GetByID(ctx context.Context, id string) (product.Product, error)
	ByTags(ctx context.Context, tags []string, limit int) ([]product.Product, error)
	ByCategory(ctx context.Context, category string, limit int) ([]product.Product, error)
	TopRated(ctx context.Context, limit int) ([]product.Product, error)
}

// Strategy produces scored candidates for a source product. Implementations
// fetch their own candidate pool and never return the source itself.
type Strategy interface {
	Name() domrec.StrategyName
	Recommend(ctx context.Context, source product.Product, limit int) ([]domrec.Candidate, error)
}
