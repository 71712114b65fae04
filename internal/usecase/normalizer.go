package usecase

import "github.com/unitprice/backend/internal/domain"

// Normalize rescales kilograms to grams and litres to millilitres so every
// price division happens in the same small unit. Other units pass through.
func Normalize(q domain.ExtractedQuantity) domain.ExtractedQuantity {
	switch q.Unit {
	case domain.UnitKilogram:
		q.Quantity *= 1000
		q.Unit = domain.UnitGram
	case domain.UnitLitre:
		q.Quantity *= 1000
		q.Unit = domain.UnitMillilitre
	}
	return q
}

// normalizePtr is Normalize for optional quantities
func normalizePtr(q *domain.ExtractedQuantity) *domain.ExtractedQuantity {
	if q == nil {
		return nil
	}
	n := Normalize(*q)
	return &n
}
