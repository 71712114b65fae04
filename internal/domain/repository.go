package domain

import "context"

// PriceRanker evaluates and orders product cards by unit price
type PriceRanker interface {
	Evaluate(ctx context.Context, fields RawProductFields) (*UnitPriceResult, error)
	Rank(ctx context.Context, products []RawProductFields) ([]RankedProduct, error)
}
