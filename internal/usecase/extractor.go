package usecase

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/unitprice/backend/internal/domain"
)

// quantityMatcher is one size-label shape. build returns nil when the captured
// values cannot be used, which lets the next matcher try.
type quantityMatcher struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string, title string) *domain.ExtractedQuantity
}

// packageMatchers are tried in order against the size label; the first one
// that matches and builds a quantity wins.
var packageMatchers = []quantityMatcher{
	{
		// "100g pottles 1200g"
		name:    "two-weights",
		pattern: regexp.MustCompile(`(?i)^(\d{1,5})g.*?(\d{1,5})g$`),
		build: func(m []string, _ string) *domain.ExtractedQuantity {
			return weightQuantity(atoi(m[2]), domain.UnitGram, 1)
		},
	},
	{
		// "70g pouches 5pack"
		name:    "weight-with-pack",
		pattern: regexp.MustCompile(`(?i)^(\d{1,3})g.+?(\d{1,3})pack$`),
		build: func(m []string, _ string) *domain.ExtractedQuantity {
			return weightQuantity(atoi(m[1])*atoi(m[2]), domain.UnitGram, 1)
		},
	},
	{
		// "4 x 220g", "Cans 4 x 220g"
		name:    "multipack",
		pattern: regexp.MustCompile(`(?i)^.*?(\d{1,3}) x (\d{1,3})(mL|L|g|kg)$`),
		build: func(m []string, _ string) *domain.ExtractedQuantity {
			n := atoi(m[1])
			return weightQuantity(n*atoi(m[2]), canonicalUnit(m[3]), int(n))
		},
	},
	{
		// "Bottle 1L", "750g", "1.2kg"
		name:    "trailing-measure",
		pattern: regexp.MustCompile(`(?i)^.*?([\d.]{1,5})(mL|L|g|kg)$`),
		build: func(m []string, _ string) *domain.ExtractedQuantity {
			q, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil
			}
			return weightQuantity(q, canonicalUnit(m[2]), 1)
		},
	},
	{
		// "100g pottles"
		name:    "leading-grams",
		pattern: regexp.MustCompile(`(?i)^(\d{1,5})g.*$`),
		build: func(m []string, _ string) *domain.ExtractedQuantity {
			return weightQuantity(atoi(m[1]), domain.UnitGram, 1)
		},
	},
	{
		// "Cans 3pack": no weight on the label, try the title
		name:    "pack-count",
		pattern: regexp.MustCompile(`(?i)(\d{1,3})pack$`),
		build: func(m []string, title string) *domain.ExtractedQuantity {
			n := int(atoi(m[1]))
			if q := QuantityFromTitle(title); q != nil {
				q.ItemCount = n
				q.HasExplicitWeight = true
				return q
			}
			return &domain.ExtractedQuantity{
				Quantity:    float64(n),
				Unit:        fmt.Sprintf("for %d", n),
				ItemCount:   n,
				PricingType: domain.ByEach,
			}
		},
	},
	{
		name:    "each",
		pattern: regexp.MustCompile(`(?i)^(Each|1ea)$`),
		build:   eachQuantity,
	},
	{
		name:    "medium-each",
		pattern: regexp.MustCompile(`(?i)Medium size 1ea`),
		build:   eachQuantity,
	},
}

var (
	// "$0.48 / 100g", "$3.99 / 1ea"
	perUnitPattern = regexp.MustCompile(`(?i)^\$([\d.]{1,5}) / (\d{1,3})(mL|L|g|kg|ea)$`)

	titleWeightPattern    = regexp.MustCompile(`(?i)(\d{1,3})(g|kg)`)
	titleItemCountPattern = regexp.MustCompile(`(?i)(\d{1,3})(?:pk|pack)`)
)

// ExtractPackageQuantity reads the quantity of the whole package from the size
// label. The title is consulted only for pack counts that carry no weight.
// Returns nil when no shape matches.
func ExtractPackageQuantity(size, title string) *domain.ExtractedQuantity {
	size = CleanText(size)
	if size == "" {
		return nil
	}

	for _, matcher := range packageMatchers {
		m := matcher.pattern.FindStringSubmatch(size)
		if m == nil {
			continue
		}
		if q := matcher.build(m, CleanText(title)); q != nil {
			return q
		}
	}

	return nil
}

// ExtractPerUnitQuantity reads the vendor comparative price, e.g. "$0.48 / 100g".
// Returns nil when the text is absent or malformed.
func ExtractPerUnitQuantity(text string) *domain.ExtractedQuantity {
	m := perUnitPattern.FindStringSubmatch(CleanText(text))
	if m == nil {
		return nil
	}

	price, err := decimal.NewFromString(m[1])
	if err != nil {
		return nil
	}

	unit := canonicalUnit(m[3])
	return &domain.ExtractedQuantity{
		Quantity:    float64(atoi(m[2])),
		Unit:        unit,
		ItemCount:   1,
		PricingType: pricingTypeForUnit(unit),
		Price:       price.Round(2),
	}
}

// QuantityFromTitle finds the first weight mentioned in a product title. The
// quantity is returned at kilogram scale; Normalize converts it back to grams.
func QuantityFromTitle(title string) *domain.ExtractedQuantity {
	m := titleWeightPattern.FindStringSubmatch(CleanText(title))
	if m == nil {
		return nil
	}

	q := float64(atoi(m[1]))
	unit := canonicalUnit(m[2])
	if unit == domain.UnitGram {
		q /= 1000
		unit = domain.UnitKilogram
	}

	return &domain.ExtractedQuantity{
		Quantity:    q,
		Unit:        unit,
		ItemCount:   1,
		PricingType: domain.ByWeight,
	}
}

// ItemCountFromTitle finds a pack count such as "6pk" or "12pack" in a title.
// Returns 0 when none is present.
func ItemCountFromTitle(title string) int {
	m := titleItemCountPattern.FindStringSubmatch(CleanText(title))
	if m == nil {
		return 0
	}
	return int(atoi(m[1]))
}

func weightQuantity[N int64 | float64](q N, unit string, items int) *domain.ExtractedQuantity {
	return &domain.ExtractedQuantity{
		Quantity:          float64(q),
		Unit:              unit,
		ItemCount:         items,
		PricingType:       pricingTypeForUnit(unit),
		HasExplicitWeight: true,
	}
}

func eachQuantity(_ []string, _ string) *domain.ExtractedQuantity {
	return &domain.ExtractedQuantity{
		Quantity:    1,
		Unit:        domain.UnitEach,
		ItemCount:   1,
		PricingType: domain.ByEach,
	}
}

// atoi parses a pattern group already restricted to digits
func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
