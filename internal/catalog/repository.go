package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/logger"

	"go.uber.org/zap"
)

// Repository is the read-only catalog store.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, categoryID int64) ([]Product, error)
	ListOffers(ctx context.Context, productID int64) ([]Offer, error)
	GetOffer(ctx context.Context, productID, sellerID int64) (*Offer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCategories"),
	)
	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description
		FROM categories
		ORDER BY description
	`)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	result := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Description); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, apperror.Storage(err)
		}
		result = append(result, c)
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

func (r *repository) ListProducts(ctx context.Context, categoryID int64) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
		zap.Int64("category_id", categoryID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, description
		FROM products
		WHERE category_id = $1
		ORDER BY description
	`, categoryID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	result := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Description); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, apperror.Storage(err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	return result, nil
}

func (r *repository) ListOffers(ctx context.Context, productID int64) ([]Offer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOffers"),
		zap.Int64("product_id", productID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT ps.product_id, s.id, s.name, ps.price
		FROM product_sellers ps
		JOIN sellers s ON ps.seller_id = s.id
		WHERE ps.product_id = $1
		ORDER BY s.name
	`, productID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	defer rows.Close()

	result := make([]Offer, 0)
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ProductID, &o.SellerID, &o.SellerName, &o.Price); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, apperror.Storage(err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	return result, nil
}

// GetOffer returns nil, nil when the seller does not sell the product.
func (r *repository) GetOffer(ctx context.Context, productID, sellerID int64) (*Offer, error) {
	var o Offer
	err := r.db.QueryRowContext(ctx, `
		SELECT ps.product_id, s.id, s.name, ps.price
		FROM product_sellers ps
		JOIN sellers s ON ps.seller_id = s.id
		WHERE ps.product_id = $1 AND ps.seller_id = $2
	`, productID, sellerID).Scan(&o.ProductID, &o.SellerID, &o.SellerName, &o.Price)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to get offer",
			zap.String("layer", "repository"),
			zap.Int64("product_id", productID),
			zap.Int64("seller_id", sellerID),
			zap.Error(err),
		)
		return nil, apperror.Storage(err)
	}

	return &o, nil
}
