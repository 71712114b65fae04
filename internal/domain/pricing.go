package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// PricingType is the physical dimension a unit price is expressed against.
// The numeric values double as the primary sort key.
type PricingType int

const (
	PricingUnknown PricingType = 0
	ByWeight       PricingType = 1
	ByVolume       PricingType = 2
	ByEach         PricingType = 3
)

func (p PricingType) String() string {
	switch p {
	case ByWeight:
		return "BY_WEIGHT"
	case ByVolume:
		return "BY_VOLUME"
	case ByEach:
		return "BY_EACH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the pricing type by name in JSON payloads
func (p PricingType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ProductVariation identifies which label shape was seen and therefore which
// formula computes the unit price.
type ProductVariation int

const (
	VariationUnknown ProductVariation = iota
	Product1
	Product2
	Product3
	Product4
	Product5
	Product6
	Product7
	Product8
)

func (v ProductVariation) String() string {
	if v < Product1 || v > Product8 {
		return "UNKNOWN"
	}
	return "PRODUCT_" + strconv.Itoa(int(v))
}

// MarshalText renders the variation by name in JSON payloads
func (v ProductVariation) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Canonical unit labels
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitMillilitre = "mL"
	UnitLitre      = "L"
	UnitEach       = "ea"
)

// RawProductFields holds the text scraped from a single product card.
// Any field may be empty.
type RawProductFields struct {
	Title           string `json:"title"`
	Size            string `json:"size"`
	UnitPrice       string `json:"unitPrice"`       // vendor comparative price, e.g. "$0.48 / 100g"
	Dollars         string `json:"dollars"`
	Cents           string `json:"cents"`           // may carry a "kg" marker for per-kg products
	SingleUnitPrice string `json:"singleUnitPrice"` // shown alongside per-kg prices
}

// ExtractedQuantity is a quantity read from either the size label (package
// quantity) or the comparative price (per-unit quantity).
type ExtractedQuantity struct {
	Quantity          float64         `json:"quantity"`
	Unit              string          `json:"unit"`
	ItemCount         int             `json:"itemCount"`
	PricingType       PricingType     `json:"pricingType"`
	HasExplicitWeight bool            `json:"hasExplicitWeight"`
	Price             decimal.Decimal `json:"price"` // per-unit extraction only
}

// Classification is the resolved pricing type and product variation
type Classification struct {
	PricingType      PricingType      `json:"pricingType"`
	ProductVariation ProductVariation `json:"productVariation"`
}

// UnitPriceResult is the immutable outcome of evaluating one product
type UnitPriceResult struct {
	PricingType         PricingType         `json:"pricingType"`
	ProductVariation    ProductVariation    `json:"productVariation"`
	AdvertisedPrice     decimal.Decimal     `json:"advertisedPrice"`
	UnitPricePerItem    decimal.NullDecimal `json:"unitPricePerItem"`
	SortableUnitPrice   string              `json:"sortableUnitPrice"`
	FriendlyPriceString string              `json:"friendlyPriceString"`
	Units               string              `json:"units"`
	ItemCount           int                 `json:"itemCount"`
	Package             *ExtractedQuantity  `json:"package,omitempty"`
	PerUnit             *ExtractedQuantity  `json:"perUnit,omitempty"`
}

// RankedProduct pairs a result with its position in the submitted batch
type RankedProduct struct {
	Index  int              `json:"index"`
	Result *UnitPriceResult `json:"result"`
	Issues []string         `json:"issues,omitempty"`
}
