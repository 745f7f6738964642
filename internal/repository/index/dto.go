package index

import (
	"strconv"
	"strings"

	"github.com/awaismughal2020/prodex/internal/domain/product"
)

// tagJoin separates multi-value tag fields inside a hash field. The FT
// schema declares the same separator for tags and colors.
const tagJoin = ","

// Hash field names for the products index.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldPrice       = "price"
	fieldRating      = "rating"
	fieldTags        = "tags"
	fieldBrand       = "brand"
	fieldWeight      = "weight"
	fieldDimensions  = "dimensions"
	fieldColors      = "colors"
	fieldInStock     = "in_stock"
	fieldCreatedAt   = "created_at"
)

func productToFields(p *product.Product) map[string]string {
	return map[string]string{
		fieldName:        p.Name(),
		fieldDescription: p.Description(),
		fieldCategory:    p.Category(),
		fieldPrice:       strconv.FormatFloat(p.Price(), 'f', -1, 64),
		fieldRating:      strconv.FormatFloat(p.Rating(), 'f', -1, 64),
		fieldTags:        strings.Join(p.Tags(), tagJoin),
		fieldBrand:       p.Brand(),
		fieldWeight:      strconv.FormatFloat(p.Weight(), 'f', -1, 64),
		fieldDimensions:  p.Dimensions(),
		fieldColors:      strings.Join(p.Colors(), tagJoin),
		fieldInStock:     strconv.FormatBool(p.InStock()),
		fieldCreatedAt:   strconv.FormatInt(p.CreatedAt(), 10),
	}
}

func productFromFields(id string, fields map[string]string) product.Product {
	price, _ := strconv.ParseFloat(fields[fieldPrice], 64)
	rating, _ := strconv.ParseFloat(fields[fieldRating], 64)
	weight, _ := strconv.ParseFloat(fields[fieldWeight], 64)
	createdAt, _ := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	inStock := fields[fieldInStock] == "true"

	return product.Reconstruct(
		id,
		fields[fieldName],
		fields[fieldDescription],
		fields[fieldCategory],
		price, rating,
		splitSet(fields[fieldTags]),
		fields[fieldBrand],
		weight,
		fields[fieldDimensions],
		splitSet(fields[fieldColors]),
		inStock,
		createdAt,
	)
}

func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, tagJoin)
}
