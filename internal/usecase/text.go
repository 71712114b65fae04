package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/unitprice/backend/internal/domain"
)

var leadingIntPattern = regexp.MustCompile(`^[+-]?\d+`)

// CleanText replaces non-breaking spaces with ordinary spaces and trims the result
func CleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// CleanFields applies CleanText to every field
func CleanFields(f domain.RawProductFields) domain.RawProductFields {
	return domain.RawProductFields{
		Title:           CleanText(f.Title),
		Size:            CleanText(f.Size),
		UnitPrice:       CleanText(f.UnitPrice),
		Dollars:         CleanText(f.Dollars),
		Cents:           CleanText(f.Cents),
		SingleUnitPrice: CleanText(f.SingleUnitPrice),
	}
}

// leadingInt parses the integer at the start of s, ignoring anything after it.
// A leading "$" is tolerated. Returns 0 when s does not start with a number.
func leadingInt(s string) int64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	m := leadingIntPattern.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// canonicalUnit maps case variants produced by case-insensitive patterns onto
// the labels used everywhere else.
func canonicalUnit(u string) string {
	switch strings.ToLower(u) {
	case "g":
		return domain.UnitGram
	case "kg":
		return domain.UnitKilogram
	case "ml":
		return domain.UnitMillilitre
	case "l":
		return domain.UnitLitre
	case "ea":
		return domain.UnitEach
	}
	return u
}

// pricingTypeForUnit infers the dimension a unit measures
func pricingTypeForUnit(unit string) domain.PricingType {
	switch unit {
	case domain.UnitGram, domain.UnitKilogram:
		return domain.ByWeight
	case domain.UnitMillilitre, domain.UnitLitre:
		return domain.ByVolume
	case domain.UnitEach:
		return domain.ByEach
	}
	return domain.PricingUnknown
}

// hasKgInCents reports whether the cents text carries the per-kg marker
func hasKgInCents(cents string) bool {
	return strings.Contains(strings.ToLower(cents), "kg")
}
