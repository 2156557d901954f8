package shopper

import (
	"context"

	"parana-shopper/internal/logger"

	"go.uber.org/zap"
)

// Service authenticates shoppers by identifier.
type Service interface {
	Login(ctx context.Context, shopperID int64) (*Shopper, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Login resolves shopperID to a shopper. ErrShopperNotFound is final: callers
// must end the session rather than retry.
func (s *service) Login(ctx context.Context, shopperID int64) (*Shopper, error) {
	if shopperID <= 0 {
		return nil, ErrInvalidShopper
	}

	sh, err := s.repo.FindByID(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if sh == nil {
		logger.FromCtx(ctx).Warn("login rejected", zap.Int64("shopper_id", shopperID))
		return nil, ErrShopperNotFound
	}

	logger.FromCtx(ctx).Info("shopper logged in", zap.Int64("shopper_id", sh.ID))
	return sh, nil
}
