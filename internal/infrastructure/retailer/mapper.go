package retailer

import (
	"strings"

	"github.com/unitprice/backend/internal/domain"
)

// ProductCard is the text the browser extension scrapes from one product tile.
// Field names follow the retailer's markup: the size span, the cup price in
// the price meta block, the dollars and cents of the present price, and the
// single-unit text shown for products sold by the kilogram.
type ProductCard struct {
	Title           string `json:"title"`
	Size            string `json:"size"`
	CupPrice        string `json:"cupPrice"`
	Dollars         string `json:"dollars"`
	Cents           string `json:"cents"`
	SingleUnitPrice string `json:"singleUnitPrice"`
}

var whitespaceReplacer = strings.NewReplacer("\u00a0", " ", "\t", " ", "\n", " ", "\r", " ")

// MapToRawFields converts a scraped card into engine input. Text is trimmed and
// non-breaking spaces become ordinary spaces; missing fields stay empty.
func MapToRawFields(card ProductCard) domain.RawProductFields {
	return domain.RawProductFields{
		Title:           textOrDefault(card.Title),
		Size:            textOrDefault(card.Size),
		UnitPrice:       textOrDefault(card.CupPrice),
		Dollars:         textOrDefault(card.Dollars),
		Cents:           textOrDefault(card.Cents),
		SingleUnitPrice: textOrDefault(card.SingleUnitPrice),
	}
}

// MapAll converts a batch of cards, preserving order
func MapAll(cards []ProductCard) []domain.RawProductFields {
	fields := make([]domain.RawProductFields, 0, len(cards))
	for _, card := range cards {
		fields = append(fields, MapToRawFields(card))
	}
	return fields
}

func textOrDefault(s string) string {
	return strings.TrimSpace(whitespaceReplacer.Replace(s))
}
