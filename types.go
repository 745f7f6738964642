package prodex

import (
	"fmt"

	"github.com/awaismughal2020/prodex/internal/domain/product"
)

// Product is the public product shape.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       float64
	Rating      float64
	Tags        []string
	Brand       string
	Weight      float64
	Dimensions  string
	Colors      []string
	InStock     bool
	CreatedAt   int64
}

// SearchQuery is the input for Client.Search. Zero values mean "no filter";
// zero Page/PerPage take the defaults.
type SearchQuery struct {
	Query     string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Tags      []string
	Page      int
	PerPage   int
}

// SearchHit is one scored search result.
type SearchHit struct {
	Product       Product
	Score         float64
	MatchedFields []string
}

// Bucket is one facet bucket.
type Bucket struct {
	Label string
	Count int
}

// SearchResult is the output of Client.Search.
type SearchResult struct {
	Found  int
	Hits   []SearchHit
	Facets map[string][]Bucket
}

// Recommendation is one blended recommendation.
type Recommendation struct {
	Product    Product
	Score      float64
	Strategies []string
}

// Recommendations is the output of Client.Recommend.
type Recommendations struct {
	Source   Product
	Items    []Recommendation
	Coverage map[string]int
}

func fromDomain(p product.Product) Product {
	return Product{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Category:    p.Category(),
		Price:       p.Price(),
		Rating:      p.Rating(),
		Tags:        p.Tags(),
		Brand:       p.Brand(),
		Weight:      p.Weight(),
		Dimensions:  p.Dimensions(),
		Colors:      p.Colors(),
		InStock:     p.InStock(),
		CreatedAt:   p.CreatedAt(),
	}
}

func toDomain(p Product) (product.Product, error) {
	dp, err := product.New(
		p.ID, p.Name, p.Description, p.Category,
		p.Price, p.Rating, p.Tags, p.Brand,
		p.Weight, p.Dimensions, p.Colors, p.InStock,
		p.CreatedAt,
	)
	if err != nil {
		return product.Product{}, fmt.Errorf("prodex: invalid product: %w", err)
	}
	return dp, nil
}
