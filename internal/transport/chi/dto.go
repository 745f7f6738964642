package chi

import (
	"github.com/awaismughal2020/prodex/internal/domain/product"
	"github.com/awaismughal2020/prodex/internal/domain/search/result"
	"github.com/awaismughal2020/prodex/internal/usecase/recommend"
)

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeInvalidFilter      = "invalid_filter"
	codeProductNotFound    = "product_not_found"
	codeAlreadyExists      = "already_exists"
	codeIndexUnavailable   = "index_unavailable"
	codeIndexQueryFailed   = "index_query_failed"
	codeRecommendationsOff = "recommendations_unavailable"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type productDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	Tags        []string `json:"tags,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	InStock     bool     `json:"in_stock"`
	CreatedAt   int64    `json:"created_at,omitempty"`
}

func productToDTO(p product.Product) productDTO {
	return productDTO{
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

func productFromDTO(d productDTO) (product.Product, error) {
	return product.New(
		d.ID, d.Name, d.Description, d.Category,
		d.Price, d.Rating, d.Tags, d.Brand,
		d.Weight, d.Dimensions, d.Colors, d.InStock, d.CreatedAt,
	)
}

type searchRequestDTO struct {
	Query     string   `json:"query"`
	Category  string   `json:"category,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Page      int      `json:"page,omitempty"`
	PerPage   int      `json:"per_page,omitempty"`
}

type searchHitDTO struct {
	Product       productDTO `json:"product"`
	Score         float64    `json:"score"`
	MatchedFields []string   `json:"matched_fields,omitempty"`
}

type bucketDTO struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type searchResponseDTO struct {
	Query   string                 `json:"query"`
	Found   int                    `json:"found"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"per_page"`
	Results []searchHitDTO         `json:"results"`
	Facets  map[string][]bucketDTO `json:"facets,omitempty"`
}

func searchPageToDTO(query string, page, perPage int, p *result.Page) searchResponseDTO {
	hits := make([]searchHitDTO, len(p.Results))
	for i := range p.Results {
		hits[i] = searchHitDTO{
			Product:       productToDTO(p.Results[i].Product()),
			Score:         p.Results[i].Score(),
			MatchedFields: p.Results[i].MatchedFields(),
		}
	}

	var facets map[string][]bucketDTO
	if len(p.Facets) > 0 {
		facets = make(map[string][]bucketDTO, len(p.Facets))
		for field, buckets := range p.Facets {
			out := make([]bucketDTO, len(buckets))
			for i, b := range buckets {
				out[i] = bucketDTO{Label: b.Label, Count: b.Count}
			}
			facets[field] = out
		}
	}

	return searchResponseDTO{
		Query:   query,
		Found:   p.Found,
		Page:    page,
		PerPage: perPage,
		Results: hits,
		Facets:  facets,
	}
}

type recommendationDTO struct {
	Product    productDTO `json:"product"`
	Score      float64    `json:"score"`
	Strategies []string   `json:"strategies"`
}

type recommendResponseDTO struct {
	SourceProduct   productDTO          `json:"source_product"`
	Recommendations []recommendationDTO `json:"recommendations"`
	Coverage        map[string]int      `json:"coverage"`
}

func recommendToDTO(resp *recommend.Response) recommendResponseDTO {
	items := make([]recommendationDTO, len(resp.Items))
	for i, item := range resp.Items {
		strategies := make([]string, len(item.Strategies))
		for j, s := range item.Strategies {
			strategies[j] = string(s)
		}
		items[i] = recommendationDTO{
			Product:    productToDTO(item.Product),
			Score:      item.Score,
			Strategies: strategies,
		}
	}

	coverage := make(map[string]int, len(resp.Coverage))
	for name, n := range resp.Coverage {
		coverage[string(name)] = n
	}

	return recommendResponseDTO{
		SourceProduct:   productToDTO(resp.Source),
		Recommendations: items,
		Coverage:        coverage,
	}
}

type productListDTO struct {
	Products []productDTO `json:"products"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PerPage  int          `json:"per_page"`
}

type categoriesDTO struct {
	Categories []string `json:"categories"`
}

type healthDTO struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}
