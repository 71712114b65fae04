package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/unitprice/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// RankingServiceConfig holds configuration for the ranking service
type RankingServiceConfig struct {
	Concurrency        int
	MaxProducts        int
	EnableDebugLogging bool
}

// RankingService evaluates batches of product cards and orders them by unit price
type RankingService struct {
	logger             zerolog.Logger
	concurrency        int
	maxProducts        int
	enableDebugLogging bool
}

// NewRankingService creates a new ranking service
func NewRankingService(logger zerolog.Logger, config RankingServiceConfig) *RankingService {
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	maxProducts := config.MaxProducts
	if maxProducts <= 0 {
		maxProducts = 500
	}

	return &RankingService{
		logger:             logger.With().Str("component", "ranking").Logger(),
		concurrency:        concurrency,
		maxProducts:        maxProducts,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Evaluate prices a single product. Reported conditions are logged and also
// returned alongside the result.
func (s *RankingService) Evaluate(ctx context.Context, fields domain.RawProductFields) (*domain.UnitPriceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Evaluate(fields)
	s.report(fields, result, err)
	return result, err
}

// Rank prices every product and returns them in ranking order. Malformed
// products never abort the batch; their conditions are attached as issues.
func (s *RankingService) Rank(ctx context.Context, products []domain.RawProductFields) ([]domain.RankedProduct, error) {
	if len(products) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if len(products) > s.maxProducts {
		return nil, fmt.Errorf("%w: got %d, max %d", domain.ErrTooManyProducts, len(products), s.maxProducts)
	}

	ranked := make([]domain.RankedProduct, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, fields := range products {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := Evaluate(fields)
			s.report(fields, result, err)
			ranked[i] = domain.RankedProduct{
				Index:  i,
				Result: result,
				Issues: IssueMessages(err),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortRanked(ranked)

	s.logger.Info().Int("products", len(ranked)).Msg("ranked products")
	return ranked, nil
}

func (s *RankingService) report(fields domain.RawProductFields, result *domain.UnitPriceResult, err error) {
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("title", fields.Title).
			Str("size", fields.Size).
			Str("unitPrice", fields.UnitPrice).
			Msg("product reported conditions")
	}

	if s.enableDebugLogging && result != nil {
		s.logger.Debug().
			Str("title", fields.Title).
			Stringer("pricingType", result.PricingType).
			Stringer("variation", result.ProductVariation).
			Str("price", result.FriendlyPriceString).
			Msg("evaluated product")
	}
}

// IssueMessages flattens joined errors into one message per condition
func IssueMessages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

var _ domain.PriceRanker = (*RankingService)(nil)

// IsReportedCondition reports whether err only carries recoverable product conditions
func IsReportedCondition(err error) bool {
	return errors.Is(err, domain.ErrIndeterminatePricingType) ||
		errors.Is(err, domain.ErrIndeterminateVariation) ||
		errors.Is(err, domain.ErrUnusableUnitPrice)
}
