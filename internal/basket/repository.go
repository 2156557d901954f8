package basket

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	FindBasket(ctx context.Context, shopperID int64, day time.Time) (*Basket, error)
	CreateBasket(ctx context.Context, shopperID int64, day, createdAt time.Time) (*Basket, bool, error)
	AddLine(ctx context.Context, params AddLineParams) (*Line, error)
	UpdateQuantity(ctx context.Context, basketID, lineID int64, quantity int) error
	RemoveLine(ctx context.Context, basketID, lineID int64) error
	ListLines(ctx context.Context, basketID int64) ([]LineView, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FindBasket returns nil, nil when the shopper has no basket for day.
func (r *repository) FindBasket(ctx context.Context, shopperID int64, day time.Time) (*Basket, error) {
	var b Basket
	err := r.db.QueryRowContext(ctx, `
		SELECT id, shopper_id, basket_date, created_at
		FROM baskets
		WHERE shopper_id = $1 AND basket_date = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, shopperID, day).Scan(&b.ID, &b.ShopperID, &b.BasketDate, &b.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find basket",
			zap.String("layer", "repository"),
			zap.String("method", "FindBasket"),
			zap.Int64("shopper_id", shopperID),
			zap.Error(err),
		)
		return nil, apperror.Storage(err)
	}

	return &b, nil
}

// CreateBasket inserts the (shopper, day) basket. A concurrent insert for the
// same pair hits the unique constraint and returns the existing row instead;
// the bool reports whether this call created it.
func (r *repository) CreateBasket(
	ctx context.Context,
	shopperID int64,
	day, createdAt time.Time,
) (*Basket, bool, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateBasket"),
		zap.Int64("shopper_id", shopperID),
	)

	var (
		b       Basket
		created bool
	)
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO baskets (shopper_id, basket_date, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (shopper_id, basket_date)
		DO UPDATE SET shopper_id = EXCLUDED.shopper_id
		RETURNING id, shopper_id, basket_date, created_at, (xmax = 0) AS created
	`, shopperID, day, createdAt).Scan(&b.ID, &b.ShopperID, &b.BasketDate, &b.CreatedAt, &created)
	if err != nil {
		log.Error("failed to create basket", zap.Error(err))
		return nil, false, apperror.Storage(err)
	}

	log.Info("basket ready", zap.Int64("basket_id", b.ID), zap.Bool("created", created))
	return &b, created, nil
}

// AddLine inserts a line or, when the (basket, product, seller) line exists,
// adds to its quantity. The stored price of an existing line is kept.
func (r *repository) AddLine(ctx context.Context, params AddLineParams) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddLine"),
		zap.Int64("basket_id", params.BasketID),
		zap.Int64("product_id", params.ProductID),
		zap.Int64("seller_id", params.SellerID),
	)

	log.Debug("start add basket line")

	var l Line
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO basket_lines (basket_id, product_id, seller_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (basket_id, product_id, seller_id)
		DO UPDATE SET quantity = basket_lines.quantity + EXCLUDED.quantity
		RETURNING id, basket_id, product_id, seller_id, quantity, price
	`,
		params.BasketID,
		params.ProductID,
		params.SellerID,
		params.Quantity,
		params.UnitPrice,
	).Scan(&l.ID, &l.BasketID, &l.ProductID, &l.SellerID, &l.Quantity, &l.UnitPrice)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("basket line references unknown row", zap.Error(err))
			return nil, ErrUnknownProductOrSeller
		}
		log.Error("failed to add basket line", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	log.Info("success add basket line",
		zap.Int64("line_id", l.ID),
		zap.Int("quantity", l.Quantity),
	)
	return &l, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, basketID, lineID int64, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE basket_lines
		SET quantity = $1
		WHERE id = $2 AND basket_id = $3
	`, quantity, lineID, basketID)
	if err != nil {
		return apperror.Storage(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage(err)
	}
	if rowsAffected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) RemoveLine(ctx context.Context, basketID, lineID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM basket_lines
		WHERE id = $1 AND basket_id = $2
	`, lineID, basketID)
	if err != nil {
		return apperror.Storage(err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage(err)
	}
	if rowsAffected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) ListLines(ctx context.Context, basketID int64) ([]LineView, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListLines"),
		zap.Int64("basket_id", basketID),
	)

	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			bl.id,
			p.description,
			s.name,
			bl.quantity,
			bl.price
		FROM basket_lines bl
		JOIN products p ON bl.product_id = p.id
		JOIN sellers s ON bl.seller_id = s.id
		WHERE bl.basket_id = $1
		ORDER BY bl.id
	`, basketID)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	result := make([]LineView, 0)
	for rows.Next() {
		var v LineView
		if err := rows.Scan(
			&v.LineRef,
			&v.ProductDescription,
			&v.SellerName,
			&v.Quantity,
			&v.UnitPrice,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, apperror.Storage(err)
		}
		v.LineTotal = v.UnitPrice.Mul(decimalFromInt(v.Quantity))
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgForeignKeyViolation
}
