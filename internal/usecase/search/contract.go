package search

import (
	"context"

	"github.com/awaismughal2020/prodex/internal/domain/search/query"
	"github.com/awaismughal2020/prodex/internal/domain/search/result"
)

// Gateway defines the index contract for search operations.
type Gateway interface {
	Search(ctx context.Context, c *query.Compiled) (*result.Raw, error)
}
