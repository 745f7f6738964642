package filter

import (
	"fmt"
	"math"
)

// Builder assembles a filter Expression from structured predicates. Each
// present predicate becomes one or more conditions; conditions combine with
// AND semantics. The zero value is ready to use.
type Builder struct {
	conds []Condition
	err   error
}

// Category adds a category equality predicate.
func (b *Builder) Category(category string) *Builder {
	if b.err != nil || category == "" {
		return b
	}
	cond, err := NewMatch(KeyCategory, category)
	b.append(cond, err)
	return b
}

// Brand adds a brand equality predicate.
func (b *Builder) Brand(brand string) *Builder {
	if b.err != nil || brand == "" {
		return b
	}
	cond, err := NewMatch(KeyBrand, brand)
	b.append(cond, err)
	return b
}

// PriceRange adds a price range predicate. Nil boundaries are unbounded; a
// lower bound above the upper bound is rejected.
func (b *Builder) PriceRange(minPrice, maxPrice *float64) *Builder {
	if b.err != nil || (minPrice == nil && maxPrice == nil) {
		return b
	}
	for _, bound := range []*float64{minPrice, maxPrice} {
		if bound != nil && (math.IsNaN(*bound) || *bound < 0) {
			b.err = fmt.Errorf("price bound must be a non-negative number")
			return b
		}
	}
	r, err := NewRangeBounds(minPrice, maxPrice)
	if err != nil {
		b.err = fmt.Errorf("price range: %w", err)
		return b
	}
	cond, err := NewRange(KeyPrice, r)
	b.append(cond, err)
	return b
}

// MinRating adds a rating floor predicate. The bound must be within [0,5].
func (b *Builder) MinRating(minRating *float64) *Builder {
	if b.err != nil || minRating == nil {
		return b
	}
	if math.IsNaN(*minRating) || *minRating < 0 || *minRating > 5 {
		b.err = fmt.Errorf("min rating must be between 0 and 5")
		return b
	}
	r, err := NewRangeBounds(minRating, nil)
	if err != nil {
		b.err = fmt.Errorf("rating range: %w", err)
		return b
	}
	cond, err := NewRange(KeyRating, r)
	b.append(cond, err)
	return b
}

// Tags adds a tag membership predicate: every listed tag must be present on
// the document.
func (b *Builder) Tags(tags []string) *Builder {
	if b.err != nil {
		return b
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		cond, err := NewMatch(KeyTags, tag)
		if b.append(cond, err); b.err != nil {
			return b
		}
	}
	return b
}

// InStock adds an in-stock predicate.
func (b *Builder) InStock(inStock *bool) *Builder {
	if b.err != nil || inStock == nil {
		return b
	}
	v := "false"
	if *inStock {
		v = "true"
	}
	cond, err := NewMatch(KeyInStock, v)
	b.append(cond, err)
	return b
}

// Build returns the assembled expression or the first predicate error.
func (b *Builder) Build() (Expression, error) {
	if b.err != nil {
		return Expression{}, b.err
	}
	return NewExpression(b.conds)
}

func (b *Builder) append(cond Condition, err error) {
	if err != nil {
		b.err = err
		return
	}
	b.conds = append(b.conds, cond)
}
