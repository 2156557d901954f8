package shopper

import "parana-shopper/internal/apperror"

var (
	ErrShopperNotFound = apperror.New(apperror.ErrNotFound, "shopper not found")
	ErrInvalidShopper  = apperror.New(apperror.ErrInvalidInput, "shopper id is required")
)
