package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Commit(ctx context.Context, basketID, shopperID int64, day time.Time) (*Order, error)
	History(ctx context.Context, shopperID int64) ([]HistoryRow, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Commit turns the basket's lines into an order in a single transaction:
// lock the basket, snapshot its lines, insert the order header and one order
// line per snapshot line, then clear the basket lines. The basket row itself is
// kept so later adds on the same day reuse it. Nothing is visible unless every
// step succeeds.
func (r *repository) Commit(
	ctx context.Context,
	basketID, shopperID int64,
	day time.Time,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Commit"),
		zap.Int64("basket_id", basketID),
		zap.Int64("shopper_id", shopperID),
	)

	log.Debug("starting commit transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	// 1. Lock the basket and check ownership + day
	var lockedID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM baskets
		WHERE id = $1 AND shopper_id = $2 AND basket_date = $3
		FOR UPDATE
	`, basketID, shopperID, day).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("no active basket for commit")
		return nil, ErrNoActiveBasket
	}
	if err != nil {
		log.Error("failed to lock basket", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	// 2. Snapshot basket lines
	lines, err := snapshotLines(ctx, tx, basketID)
	if err != nil {
		log.Error("failed to snapshot basket lines", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	if len(lines) == 0 {
		log.Warn("commit rejected: basket is empty")
		return nil, ErrEmptyBasket
	}

	// 3. Insert order header
	o := &Order{
		ShopperID: shopperID,
		OrderDate: day,
		Status:    StatusPlaced,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (shopper_id, order_date, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, shopperID, day, StatusPlaced).Scan(&o.ID)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	// 4. Insert order lines
	for i, l := range lines {
		l.OrderID = o.ID
		l.Status = StatusPlaced
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, seller_id, quantity, price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			l.OrderID,
			l.ProductID,
			l.SellerID,
			l.Quantity,
			l.Price,
			l.Status,
		).Scan(&l.ID)
		if err != nil {
			log.Error("failed to insert order line",
				zap.Int("line_index", i),
				zap.Int64("product_id", l.ProductID),
				zap.Error(err),
			)
			return nil, apperror.Storage(err)
		}
		o.Lines = append(o.Lines, l)
	}

	// 5. Clear the basket
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM basket_lines
		WHERE basket_id = $1
	`, basketID); err != nil {
		log.Error("failed to clear basket", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	committed = true
	log.Info("order committed",
		zap.Int64("order_id", o.ID),
		zap.Int("line_count", len(o.Lines)),
	)

	return o, nil
}

func snapshotLines(ctx context.Context, tx *sql.Tx, basketID int64) ([]Line, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, seller_id, quantity, price
		FROM basket_lines
		WHERE basket_id = $1
		ORDER BY id
	`, basketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.SellerID, &l.Quantity, &l.Price); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}

// History lists the shopper's order lines, most recent order date first.
func (r *repository) History(ctx context.Context, shopperID int64) ([]HistoryRow, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "History"),
		zap.Int64("shopper_id", shopperID),
	)

	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			o.id,
			o.order_date,
			p.description,
			s.name,
			ol.quantity,
			ol.price,
			ol.status
		FROM orders o
		JOIN order_lines ol ON o.id = ol.order_id
		JOIN products p ON ol.product_id = p.id
		JOIN sellers s ON ol.seller_id = s.id
		WHERE o.shopper_id = $1
		ORDER BY o.order_date DESC, o.id DESC, ol.id
	`, shopperID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	result := make([]HistoryRow, 0)
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.OrderID,
			&h.OrderDate,
			&h.ProductDescription,
			&h.SellerName,
			&h.Quantity,
			&h.Price,
			&h.Status,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, apperror.Storage(err)
		}
		result = append(result, h)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	log.Info("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}
