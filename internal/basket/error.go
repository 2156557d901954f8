package basket

import "parana-shopper/internal/apperror"

var (
	// -- Validation & Input --
	ErrQuantityNotPositive = apperror.New(apperror.ErrInvalidInput, "quantity must be positive")
	ErrInvalidShopper      = apperror.New(apperror.ErrInvalidInput, "shopper id is required")

	// -- Resource State --
	ErrLineNotFound           = apperror.New(apperror.ErrNotFound, "line not found in basket")
	ErrNoActiveBasket         = apperror.New(apperror.ErrNotFound, "no active basket")
	ErrUnknownProductOrSeller = apperror.New(apperror.ErrNotFound, "product or seller not found")

	// -- Constants (External Systems) --
	PgForeignKeyViolation = "23503"
)
