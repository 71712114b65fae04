package usecase

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/unitprice/backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// AdvertisedPrice combines the dollars and cents text into a currency value.
// Unparsable parts count as zero.
func AdvertisedPrice(dollars, cents string) decimal.Decimal {
	return decimal.New(leadingInt(dollars)*100+leadingInt(cents), -2)
}

// ResolvePricingType picks the dimension the unit price is expressed against.
// The first matching rule wins; PricingUnknown means no rule applied.
func ResolvePricingType(fields domain.RawProductFields, pkg, perUnit *domain.ExtractedQuantity) domain.PricingType {
	pkgType, perUnitType := typeOf(pkg), typeOf(perUnit)
	either := func(t domain.PricingType) bool {
		return pkgType == t || perUnitType == t
	}

	switch {
	case hasKgInCents(fields.Cents) && fields.SingleUnitPrice != "":
		return domain.ByWeight
	case either(domain.ByEach):
		if explicitWeight(pkg) {
			return domain.ByWeight
		}
		return domain.ByEach
	case either(domain.ByVolume):
		return domain.ByVolume
	case either(domain.ByWeight):
		return domain.ByWeight
	}
	return domain.PricingUnknown
}

// ResolveVariation walks the label-shape decision tree. VariationUnknown is
// returned for a per-kg price with no comparative or single-unit text, which
// has no defined formula.
func ResolveVariation(fields domain.RawProductFields, pkg *domain.ExtractedQuantity, pricingType domain.PricingType) domain.ProductVariation {
	kgInCents := hasKgInCents(fields.Cents)

	if kgInCents && fields.SingleUnitPrice != "" {
		return domain.Product8
	}

	if fields.UnitPrice == "" {
		switch {
		case explicitWeight(pkg):
			return domain.Product1
		case kgInCents:
			return domain.VariationUnknown
		default:
			return domain.Product4
		}
	}

	if explicitWeight(pkg) {
		if pricingType == domain.ByWeight {
			return domain.Product7
		}
		return domain.Product3
	}

	switch {
	case kgInCents:
		return domain.Product2
	case pkg != nil && pkg.ItemCount > 1:
		return domain.Product6
	default:
		return domain.Product5
	}
}

// Classify resolves both the pricing type and the product variation
func Classify(fields domain.RawProductFields, pkg, perUnit *domain.ExtractedQuantity) domain.Classification {
	pricingType := ResolvePricingType(fields, pkg, perUnit)
	return domain.Classification{
		PricingType:      pricingType,
		ProductVariation: ResolveVariation(fields, pkg, pricingType),
	}
}

// UnitPricePerItem computes the price per 100 reference units from normalized
// quantities. The result is invalid when no usable price can be derived.
func UnitPricePerItem(c domain.Classification, advertised decimal.Decimal, pkg, perUnit *domain.ExtractedQuantity) decimal.NullDecimal {
	switch {
	case c.ProductVariation == domain.Product7 || c.ProductVariation == domain.Product8:
		return pricePer100(advertised, quantityOf(pkg))
	case c.PricingType == domain.ByEach && perUnit != nil && perUnit.Quantity == 1:
		return usable(perUnit.Price)
	case perUnit != nil && perUnit.Quantity > 0:
		return pricePer100(perUnit.Price, perUnit.Quantity)
	default:
		return pricePer100(advertised, quantityOf(pkg))
	}
}

// SortableUnitPrice selects the value used to rank a product and renders it
// with two decimals.
func SortableUnitPrice(c domain.Classification, advertised decimal.Decimal, unitPrice decimal.NullDecimal) string {
	price := advertised

	switch c.ProductVariation {
	case domain.Product4, domain.Product5:
		// shelf price is already per item
	case domain.Product6, domain.Product7, domain.Product8:
		if unitPrice.Valid {
			price = unitPrice.Decimal
		}
	default:
		if unitPrice.Valid && (c.PricingType != domain.ByEach || unitPrice.Decimal.IsPositive()) {
			price = unitPrice.Decimal
		}
	}

	return price.StringFixed(2)
}

// Units is the reference unit shown next to the sortable price
func Units(pricingType domain.PricingType, pkg *domain.ExtractedQuantity) string {
	switch pricingType {
	case domain.ByWeight:
		return "100g"
	case domain.ByVolume:
		return "100mL"
	}
	if pkg == nil {
		return ""
	}
	return pkg.Unit
}

// FriendlyPriceString formats a price for display, e.g. "$0.57 per 100g" or "$3.50 ea"
func FriendlyPriceString(pricingType domain.PricingType, sortable, units string) string {
	switch {
	case units == "":
		return "$" + sortable
	case pricingType == domain.ByEach:
		return "$" + sortable + " " + units
	default:
		return "$" + sortable + " per " + units
	}
}

// pricePer100 divides price by quantity/100, refusing zero and non-finite inputs
func pricePer100(price decimal.Decimal, quantity float64) decimal.NullDecimal {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return decimal.NullDecimal{}
	}
	return usable(price.Div(decimal.NewFromFloat(quantity).Div(hundred)))
}

// usable drops zero prices, which cannot be ranked
func usable(price decimal.Decimal) decimal.NullDecimal {
	if price.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: price, Valid: true}
}

func typeOf(q *domain.ExtractedQuantity) domain.PricingType {
	if q == nil {
		return domain.PricingUnknown
	}
	return q.PricingType
}

func explicitWeight(q *domain.ExtractedQuantity) bool {
	return q != nil && q.HasExplicitWeight
}

func quantityOf(q *domain.ExtractedQuantity) float64 {
	if q == nil {
		return 0
	}
	return q.Quantity
}
