package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/awaismughal2020/prodex/internal/domain"
	"github.com/awaismughal2020/prodex/internal/domain/product"
	domrec "github.com/awaismughal2020/prodex/internal/domain/recommend"
	"github.com/awaismughal2020/prodex/internal/metrics"
)

// DefaultLimit is the recommendation count when the caller does not ask for
// a specific one.
const DefaultLimit = 5

// MaxLimit caps the recommendation count per request.
const MaxLimit = 50

// DefaultTimeout bounds the strategy fan-out.
const DefaultTimeout = 2 * time.Second

// Response is a blended recommendation set for one source product.
type Response struct {
	Source   product.Product
	Items    []Ranked
	Coverage map[domrec.StrategyName]int
}

// Service fetches the source product and fans out to the recommendation
// strategies concurrently, then blends their candidates into one ranked list.
type Service struct {
	gw           Gateway
	strategies   []Strategy
	weights      Weights
	timeout      time.Duration
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

// New creates a recommendation service with default blend weights, limits
// and fan-out timeout.
func New(gw Gateway, strategies []Strategy, logger *zap.Logger) *Service {
	return &Service{
		gw:           gw,
		strategies:   strategies,
		weights:      DefaultWeights(),
		timeout:      DefaultTimeout,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
		logger:       logger,
	}
}

// WithWeights overrides the per-strategy blend weights.
func (s *Service) WithWeights(w Weights) *Service {
	if len(w) > 0 {
		s.weights = w
	}
	return s
}

// WithTimeout overrides the fan-out timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithLimits overrides the default and maximum recommendation counts.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// Recommend produces up to limit recommendations for the given product id.
// A missing source surfaces ErrProductNotFound with no fallback. Individual
// strategy failures degrade the response; only when every strategy fails does
// the call fail with ErrRecommendationUnavailable.
func (s *Service) Recommend(ctx context.Context, id string, limit int) (*Response, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	source, err := s.gw.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source product: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Per-strategy result slots; no shared mutable state between goroutines.
	lists := make([][]domrec.Candidate, len(s.strategies))
	failed := make([]bool, len(s.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, st := range s.strategies {
		i, st := i, st
		g.Go(func() error {
			cands, err := st.Recommend(gctx, source, limit)
			if err != nil {
				failed[i] = true
				metrics.RecommendStrategyFailuresTotal.
					WithLabelValues(string(st.Name())).Inc()
				s.logger.Warn("Recommendation strategy failed",
					zap.String("strategy", string(st.Name())),
					zap.String("source_id", source.ID()),
					zap.Error(err),
				)
				return nil
			}
			lists[i] = cands
			return nil
		})
	}
	// strategies report failure via their slot, never through the group
	_ = g.Wait()

	allFailed := len(s.strategies) > 0
	for _, f := range failed {
		if !f {
			allFailed = false
			break
		}
	}
	if allFailed {
		return nil, fmt.Errorf("%w: all strategies failed for %s",
			domain.ErrRecommendationUnavailable, source.ID())
	}

	coverage := make(map[domrec.StrategyName]int, len(s.strategies))
	for i, st := range s.strategies {
		coverage[st.Name()] = len(lists[i])
	}

	return &Response{
		Source:   source,
		Items:    blend(lists, s.weights, limit),
		Coverage: coverage,
	}, nil
}
