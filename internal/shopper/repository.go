package shopper

import (
	"context"
	"database/sql"
	"errors"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*Shopper, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FindByID returns nil, nil when no shopper has the given id.
func (r *repository) FindByID(ctx context.Context, id int64) (*Shopper, error) {
	var s Shopper
	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, surname
		FROM shoppers
		WHERE id = $1
	`, id).Scan(&s.ID, &s.FirstName, &s.Surname)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find shopper",
			zap.String("layer", "repository"),
			zap.Int64("shopper_id", id),
			zap.Error(err),
		)
		return nil, apperror.Storage(err)
	}

	return &s, nil
}
