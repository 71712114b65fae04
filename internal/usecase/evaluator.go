package usecase

import (
	"errors"
	"fmt"

	"github.com/unitprice/backend/internal/domain"
)

// Evaluate runs extraction, classification, normalization and pricing for one
// product. A result is always returned. The error, when non-nil, joins the
// recoverable conditions met along the way (indeterminate pricing type or
// variation, unusable unit price); callers decide whether to report them.
func Evaluate(raw domain.RawProductFields) (*domain.UnitPriceResult, error) {
	fields := CleanFields(raw)

	pkg := ExtractPackageQuantity(fields.Size, fields.Title)
	perUnit := ExtractPerUnitQuantity(fields.UnitPrice)

	c := Classify(fields, pkg, perUnit)

	// per-kg products are priced against a fixed 1kg reference
	if c.ProductVariation == domain.Product8 {
		forced := domain.ExtractedQuantity{Quantity: 1, Unit: domain.UnitKilogram, ItemCount: 1}
		if pkg != nil {
			forced.ItemCount = pkg.ItemCount
			forced.PricingType = pkg.PricingType
			forced.HasExplicitWeight = pkg.HasExplicitWeight
		}
		pkg = &forced
	}

	pkg = normalizePtr(pkg)
	perUnit = normalizePtr(perUnit)

	advertised := AdvertisedPrice(fields.Dollars, fields.Cents)
	unitPrice := UnitPricePerItem(c, advertised, pkg, perUnit)
	sortable := SortableUnitPrice(c, advertised, unitPrice)
	units := Units(c.PricingType, pkg)

	result := &domain.UnitPriceResult{
		PricingType:         c.PricingType,
		ProductVariation:    c.ProductVariation,
		AdvertisedPrice:     advertised,
		UnitPricePerItem:    unitPrice,
		SortableUnitPrice:   sortable,
		FriendlyPriceString: FriendlyPriceString(c.PricingType, sortable, units),
		Units:               units,
		ItemCount:           itemCount(pkg, fields.Title),
		Package:             pkg,
		PerUnit:             perUnit,
	}

	var errs []error
	if c.PricingType == domain.PricingUnknown {
		errs = append(errs, fmt.Errorf("%w: title=%q unitPrice=%q size=%q",
			domain.ErrIndeterminatePricingType, fields.Title, fields.UnitPrice, fields.Size))
	}
	if c.ProductVariation == domain.VariationUnknown {
		errs = append(errs, fmt.Errorf("%w: title=%q", domain.ErrIndeterminateVariation, fields.Title))
	}
	if !unitPrice.Valid {
		errs = append(errs, fmt.Errorf("%w: title=%q", domain.ErrUnusableUnitPrice, fields.Title))
	}

	return result, errors.Join(errs...)
}

// itemCount prefers the count on the size label, then a pack count in the title
func itemCount(pkg *domain.ExtractedQuantity, title string) int {
	if pkg != nil && pkg.ItemCount > 0 {
		return pkg.ItemCount
	}
	if n := ItemCountFromTitle(title); n > 0 {
		return n
	}
	return 1
}
