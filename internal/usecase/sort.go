package usecase

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/unitprice/backend/internal/domain"
)

// CompareResults orders results by pricing type (weight, volume, each, then
// unresolved) and then by sortable unit price, both ascending.
func CompareResults(a, b *domain.UnitPriceResult) int {
	if ka, kb := pricingRank(a), pricingRank(b); ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	return sortKey(a).Cmp(sortKey(b))
}

// SortResults sorts in place, keeping equal elements in their original order
func SortResults(results []*domain.UnitPriceResult) {
	slices.SortStableFunc(results, CompareResults)
}

// SortRanked sorts ranked products in place with the same ordering as SortResults
func SortRanked(products []domain.RankedProduct) {
	slices.SortStableFunc(products, func(a, b domain.RankedProduct) int {
		return CompareResults(a.Result, b.Result)
	})
}

func pricingRank(r *domain.UnitPriceResult) int {
	if r == nil || r.PricingType == domain.PricingUnknown {
		return int(domain.ByEach) + 1
	}
	return int(r.PricingType)
}

func sortKey(r *domain.UnitPriceResult) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(r.SortableUnitPrice)
	if err != nil {
		return decimal.Zero
	}
	return d
}
