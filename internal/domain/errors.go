package domain

import "errors"

var (
	// ErrIndeterminatePricingType is reported when no rule assigned a pricing type
	ErrIndeterminatePricingType = errors.New("indeterminate pricing type")

	// ErrIndeterminateVariation is reported when the variation decision tree reached no leaf
	ErrIndeterminateVariation = errors.New("indeterminate product variation")

	// ErrUnusableUnitPrice is reported when the unit price collapsed to null
	ErrUnusableUnitPrice = errors.New("unusable unit price")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrTooManyProducts is returned when a batch exceeds the configured limit
	ErrTooManyProducts = errors.New("too many products in batch")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
