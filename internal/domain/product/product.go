package product

import (
	"fmt"
	"math"
	"regexp"
	"sort"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Field limits.
const (
	MaxIDLength   = 64
	MaxNameLength = 512
	MaxRating     = 5.0
)

// Product is the product aggregate (immutable value object).
type Product struct {
	id          string
	name        string
	description string
	category    string
	price       float64
	rating      float64
	tags        []string
	brand       string
	weight      float64
	dimensions  string
	colors      []string
	inStock     bool
	createdAt   int64
}

// New validates and creates a Product.
// ID: ^[a-zA-Z0-9_-]+$, 1-64 chars. Price must be finite and non-negative,
// rating finite and within [0,5].
func New(
	id, name, description, category string,
	price, rating float64,
	tags []string, brand string,
	weight float64, dimensions string,
	colors []string, inStock bool,
	createdAt int64,
) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("product ID is required")
	}
	if len(id) > MaxIDLength {
		return Product{}, fmt.Errorf("product ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return Product{}, fmt.Errorf("product ID must be alphanumeric with underscores and hyphens")
	}
	if name == "" {
		return Product{}, fmt.Errorf("product name is required")
	}
	if len(name) > MaxNameLength {
		return Product{}, fmt.Errorf("product name too long (max %d)", MaxNameLength)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Product{}, fmt.Errorf("price must be a non-negative number")
	}
	if math.IsNaN(rating) || rating < 0 || rating > MaxRating {
		return Product{}, fmt.Errorf("rating must be between 0 and %g", MaxRating)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return Product{}, fmt.Errorf("weight must be a non-negative number")
	}

	return Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		price:       price,
		rating:      rating,
		tags:        normalizeSet(tags),
		brand:       brand,
		weight:      weight,
		dimensions:  dimensions,
		colors:      normalizeSet(colors),
		inStock:     inStock,
		createdAt:   createdAt,
	}, nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(
	id, name, description, category string,
	price, rating float64,
	tags []string, brand string,
	weight float64, dimensions string,
	colors []string, inStock bool,
	createdAt int64,
) Product {
	return Product{
		id: id, name: name, description: description, category: category,
		price: price, rating: rating, tags: tags, brand: brand,
		weight: weight, dimensions: dimensions, colors: colors,
		inStock: inStock, createdAt: createdAt,
	}
}

// ID returns the product identifier.
func (p Product) ID() string { return p.id }

// Name returns the product name.
func (p Product) Name() string { return p.name }

// Description returns the product description.
func (p Product) Description() string { return p.description }

// Category returns the product category.
func (p Product) Category() string { return p.category }

// Price returns the product price.
func (p Product) Price() float64 { return p.price }

// Rating returns the product rating.
func (p Product) Rating() float64 { return p.rating }

// Tags returns the product tags, sorted and deduplicated.
func (p Product) Tags() []string { return p.tags }

// Brand returns the product brand.
func (p Product) Brand() string { return p.brand }

// Weight returns the shipping weight.
func (p Product) Weight() float64 { return p.weight }

// Dimensions returns the free-form dimensions string.
func (p Product) Dimensions() string { return p.dimensions }

// Colors returns the available colors, sorted and deduplicated.
func (p Product) Colors() []string { return p.colors }

// InStock reports whether the product is in stock.
func (p Product) InStock() bool { return p.inStock }

// CreatedAt returns the creation timestamp in unix millis.
func (p Product) CreatedAt() int64 { return p.createdAt }

// HasTag reports whether the product carries the given tag.
func (p Product) HasTag(tag string) bool {
	i := sort.SearchStrings(p.tags, tag)
	return i < len(p.tags) && p.tags[i] == tag
}

// normalizeSet sorts and deduplicates, dropping empty members.
func normalizeSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
