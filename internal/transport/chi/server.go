package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chiv5 "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/awaismughal2020/prodex/internal/domain"
	"github.com/awaismughal2020/prodex/internal/domain/search/request"
	"github.com/awaismughal2020/prodex/internal/metrics"
	"github.com/awaismughal2020/prodex/internal/usecase/catalog"
	healthuc "github.com/awaismughal2020/prodex/internal/usecase/health"
	"github.com/awaismughal2020/prodex/internal/usecase/recommend"
	"github.com/awaismughal2020/prodex/internal/usecase/search"
	"github.com/awaismughal2020/prodex/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API surface over the search, recommendation and catalog
// services.
type Server struct {
	search          *search.Service
	recommend       *recommend.Service
	catalog         *catalog.Service
	health          *healthuc.Service
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	searchSvc *search.Service,
	recommendSvc *recommend.Service,
	catalogSvc *catalog.Service,
	healthSvc *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          searchSvc,
		recommend:       recommendSvc,
		catalog:         catalogSvc,
		health:          healthSvc,
		logger:          logger,
		defaultPageSize: request.DefaultPageSize,
		maxPageSize:     request.MaxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeInvalidFilter),
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrIndexQuery, http.StatusBadGateway, codeIndexQueryFailed),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
		sentinelHandler(domain.ErrRecommendationUnavailable,
			http.StatusServiceUnavailable, codeRecommendationsOff),
	}
	return s
}

// WithPageSizes overrides the default and maximum search page sizes.
func (s *Server) WithPageSizes(defaultSize, maxSize int) *Server {
	if defaultSize > 0 {
		s.defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		s.maxPageSize = maxSize
	}
	return s
}

// Routes mounts all API routes on the router.
func (s *Server) Routes(r chiv5.Router) {
	r.Route("/api/v1", func(r chiv5.Router) {
		r.Post("/search", s.Search)
		r.Get("/recommendations/{id}", s.Recommendations)
		r.Route("/products", func(r chiv5.Router) {
			r.Get("/", s.ListProducts)
			r.Post("/", s.CreateProduct)
			r.Get("/{id}", s.GetProduct)
			r.Put("/{id}", s.UpdateProduct)
			r.Delete("/{id}", s.DeleteProduct)
		})
		r.Get("/categories", s.Categories)
	})
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if dto.PerPage == 0 {
		dto.PerPage = s.defaultPageSize
	}
	req, err := request.New(
		dto.Query, dto.Category,
		dto.MinPrice, dto.MaxPrice, dto.MinRating,
		dto.Tags, dto.Page, dto.PerPage, s.maxPageSize,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchHitsReturned.Observe(float64(len(page.Results)))
	writeJSON(w, http.StatusOK, searchPageToDTO(dto.Query, req.Page(), req.PageSize(), page))
}

// Recommendations handles GET /api/v1/recommendations/{id}.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	id := chiv5.URLParam(r, "id")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	resp, err := s.recommend.Recommend(r.Context(), id, limit)
	if err != nil {
		metrics.RecommendRequestsTotal.WithLabelValues("error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.RecommendRequestsTotal.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, recommendToDTO(resp))
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", catalog.DefaultPageSize)

	items, total, err := s.catalog.List(r.Context(), page, perPage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]productDTO, len(items))
	for i, p := range items {
		out[i] = productToDTO(p)
	}
	writeJSON(w, http.StatusOK, productListDTO{
		Products: out, Total: total, Page: page, PerPage: perPage,
	})
}

// CreateProduct handles POST /api/v1/products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto productDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if dto.CreatedAt == 0 {
		dto.CreatedAt = time.Now().Unix()
	}
	p, err := productFromDTO(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	if err := s.catalog.Create(r.Context(), &p); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, productToDTO(p))
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chiv5.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productToDTO(p))
}

// UpdateProduct handles PUT /api/v1/products/{id}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var dto productDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	dto.ID = chiv5.URLParam(r, "id")

	p, err := productFromDTO(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	if err := s.catalog.Update(r.Context(), &p); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToDTO(p))
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chiv5.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /api/v1/categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, categoriesDTO{Categories: cats})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, c := range report.Checks {
		checks[name] = string(c)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthDTO{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidFilter,
		domain.ErrProductNotFound,
		domain.ErrAlreadyExists,
		domain.ErrIndexUnavailable,
		domain.ErrIndexQuery,
		domain.ErrRecommendationUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
