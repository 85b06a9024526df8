package ledger

import "errors"

var (
	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("ledger: required field missing or invalid")
	// ErrDuplicateSKU indicates the SKU is already used by another product.
	ErrDuplicateSKU = errors.New("ledger: sku already exists")
	// ErrProductNotFound indicates no product matches the given SKU or identity.
	ErrProductNotFound = errors.New("ledger: product not found")
	// ErrSaleNotFound indicates the sale index does not exist.
	ErrSaleNotFound = errors.New("ledger: sale not found")
	// ErrInsufficientStock indicates the requested quantity exceeds available stock.
	ErrInsufficientStock = errors.New("ledger: insufficient stock")
	// ErrCorruptState indicates persisted ledger data failed to decode or validate.
	ErrCorruptState = errors.New("ledger: corrupt persisted state")
)
