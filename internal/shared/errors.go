package shared

import (
	"errors"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

// UserSafeMessage maps domain errors to messages that can be shown directly
// in a flash notice. Anything unrecognised gets a generic message; the
// original error belongs in the log, not on the page.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return "All fields are required"
	case errors.Is(err, ledger.ErrDuplicateSKU):
		return "A product with this SKU already exists"
	case errors.Is(err, ledger.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, ledger.ErrSaleNotFound):
		return "Sale not found"
	case errors.Is(err, ledger.ErrInsufficientStock):
		return "Insufficient stock"
	default:
		return "Something went wrong, please try again"
	}
}
