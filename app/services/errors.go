package services

import "errors"

var (
	// ErrEmptyID rejects a product upsert without an id.
	ErrEmptyID = errors.New("catalog: product id is empty")

	// ErrInvalidPaymentMethod rejects a checkout outside cash, card or qr.
	ErrInvalidPaymentMethod = errors.New("checkout: invalid payment method")

	// ErrUnknownProduct is returned when a cashier selects an id that is not
	// in the loaded catalog.
	ErrUnknownProduct = errors.New("cart: unknown product")
)
