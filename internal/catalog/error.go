package catalog

import "parana-shopper/internal/apperror"

var (
	ErrOfferNotFound = apperror.New(apperror.ErrNotFound, "offer not found")
)
