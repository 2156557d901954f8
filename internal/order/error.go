package order

import "parana-shopper/internal/apperror"

var (
	ErrNoActiveBasket = apperror.New(apperror.ErrEmptyState, "no active basket")
	ErrEmptyBasket    = apperror.New(apperror.ErrEmptyState, "empty basket")
)
