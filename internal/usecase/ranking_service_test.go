package usecase

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitprice/backend/internal/domain"
)

func TestNewRankingService(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		s := NewRankingService(zerolog.Nop(), RankingServiceConfig{})
		assert.Equal(t, 8, s.concurrency)
		assert.Equal(t, 500, s.maxProducts)
		assert.False(t, s.enableDebugLogging)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		s := NewRankingService(zerolog.Nop(), RankingServiceConfig{Concurrency: 2, MaxProducts: 10, EnableDebugLogging: true})
		assert.Equal(t, 2, s.concurrency)
		assert.Equal(t, 10, s.maxProducts)
		assert.True(t, s.enableDebugLogging)
	})
}

func TestRankingService_Rank(t *testing.T) {
	ctx := context.Background()
	s := NewRankingService(zerolog.Nop(), RankingServiceConfig{Concurrency: 2, MaxProducts: 5})

	t.Run("orders products and keeps batch indexes", func(t *testing.T) {
		products := []domain.RawProductFields{
			{Title: "Avocado", Size: "Each", Dollars: "3", Cents: "50"},
			{},
			{Title: "Milk", Size: "Bottle 2L", UnitPrice: "$0.24 / 100mL", Dollars: "4", Cents: "79"},
			{Title: "Beans", Size: "4 x 220g", Dollars: "5", Cents: "00"},
			{Title: "Bananas", Dollars: "3", Cents: "99 kg", SingleUnitPrice: "$0.80 each"},
		}

		ranked, err := s.Rank(ctx, products)
		require.NoError(t, err)
		require.Len(t, ranked, len(products))

		var order []int
		for _, p := range ranked {
			order = append(order, p.Index)
		}
		assert.Equal(t, []int{4, 3, 2, 0, 1}, order)

		assert.Empty(t, ranked[0].Issues)
		assert.Len(t, ranked[4].Issues, 2)
		assert.Equal(t, domain.PricingUnknown, ranked[4].Result.PricingType)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		_, err := s.Rank(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("rejects oversized batch", func(t *testing.T) {
		_, err := s.Rank(ctx, make([]domain.RawProductFields, 6))
		assert.ErrorIs(t, err, domain.ErrTooManyProducts)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Rank(cancelled, []domain.RawProductFields{{Size: "Each"}})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("large batch is evaluated concurrently", func(t *testing.T) {
		big := NewRankingService(zerolog.Nop(), RankingServiceConfig{Concurrency: 4, MaxProducts: 200})
		products := make([]domain.RawProductFields, 200)
		for i := range products {
			products[i] = domain.RawProductFields{
				Title:   fmt.Sprintf("Item %d", i),
				Size:    fmt.Sprintf("%dg", 100+i),
				Dollars: "5",
				Cents:   "00",
			}
		}

		ranked, err := big.Rank(ctx, products)
		require.NoError(t, err)
		require.Len(t, ranked, 200)

		// same price over a growing weight, so the heaviest is cheapest
		assert.Equal(t, 199, ranked[0].Index)
		assert.Equal(t, 0, ranked[199].Index)
	})
}

func TestRankingService_Evaluate(t *testing.T) {
	t.Run("returns result with conditions", func(t *testing.T) {
		s := NewRankingService(zerolog.Nop(), RankingServiceConfig{})

		result, err := s.Evaluate(context.Background(), domain.RawProductFields{})
		require.NotNil(t, result)
		assert.True(t, IsReportedCondition(err))
		assert.Len(t, IssueMessages(err), 2)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewRankingService(zerolog.Nop(), RankingServiceConfig{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := s.Evaluate(ctx, domain.RawProductFields{Size: "Each"})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, IsReportedCondition(err))
	})

	t.Run("logs conditions and debug details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
		s := NewRankingService(logger, RankingServiceConfig{EnableDebugLogging: true})

		_, err := s.Evaluate(context.Background(), domain.RawProductFields{Title: "Mystery"})
		require.Error(t, err)

		out := buf.String()
		assert.Contains(t, out, `"component":"ranking"`)
		assert.Contains(t, out, "product reported conditions")
		assert.Contains(t, out, "evaluated product")
		assert.Contains(t, out, `"title":"Mystery"`)
	})

	t.Run("debug details are off by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
		s := NewRankingService(logger, RankingServiceConfig{})

		_, err := s.Evaluate(context.Background(), domain.RawProductFields{Size: "Each", Dollars: "1"})
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

func TestIssueMessages(t *testing.T) {
	assert.Nil(t, IssueMessages(nil))
	assert.Equal(t, []string{"boom"}, IssueMessages(fmt.Errorf("boom")))
}
