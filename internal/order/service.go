package order

import (
	"context"
	"errors"
	"time"

	"parana-shopper/internal/basket"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BasketReader is the part of the basket manager the committer reads before
// checkout.
type BasketReader interface {
	FindBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error)
	ListLines(ctx context.Context, basketID int64) ([]basket.LineView, error)
}

// Receipt is what the shopper confirms before checkout.
type Receipt struct {
	BasketID int64             `json:"basket_id"`
	Lines    []basket.LineView `json:"lines"`
	Total    decimal.Decimal   `json:"total"`
}

type Service interface {
	Commit(ctx context.Context, basketID, shopperID int64, today time.Time) (int64, error)
	Checkout(ctx context.Context, shopperID int64, today time.Time) (*Order, error)
	Preview(ctx context.Context, shopperID int64, today time.Time) (*Receipt, error)
	History(ctx context.Context, shopperID int64) ([]HistoryRow, error)
}

type service struct {
	repo    Repository
	baskets BasketReader
	stats   *metrics.Shop
}

func NewService(repo Repository, baskets BasketReader, stats *metrics.Shop) Service {
	if stats == nil {
		stats = &metrics.Shop{}
	}
	return &service{repo: repo, baskets: baskets, stats: stats}
}

// Commit converts basketID into an order dated today and returns the order id.
func (s *service) Commit(ctx context.Context, basketID, shopperID int64, today time.Time) (int64, error) {
	o, err := s.commit(ctx, basketID, shopperID, today)
	if err != nil {
		return 0, err
	}
	return o.ID, nil
}

// Checkout commits the shopper's basket for today.
func (s *service) Checkout(ctx context.Context, shopperID int64, today time.Time) (*Order, error) {
	basketID, err := s.baskets.FindBasket(ctx, shopperID, today)
	if errors.Is(err, basket.ErrNoActiveBasket) {
		return nil, ErrNoActiveBasket
	}
	if err != nil {
		return nil, err
	}

	return s.commit(ctx, basketID, shopperID, today)
}

func (s *service) commit(ctx context.Context, basketID, shopperID int64, today time.Time) (*Order, error) {
	timer := metrics.StartTimer()

	o, err := s.repo.Commit(ctx, basketID, shopperID, clock.Day(today))
	if err != nil {
		s.stats.CommitFailures.Inc()
		return nil, err
	}

	s.stats.OrdersCommitted.Inc()
	s.stats.OrderLines.Add(uint64(len(o.Lines)))

	logger.FromCtx(ctx).Info("checkout complete",
		zap.String("layer", "service"),
		zap.Int64("order_id", o.ID),
		zap.String("total", o.Total().StringFixed(2)),
		zap.Duration("duration", timer.Duration()),
	)
	return o, nil
}

// Preview returns today's basket as a receipt. It fails like Checkout would
// when there is nothing to commit.
func (s *service) Preview(ctx context.Context, shopperID int64, today time.Time) (*Receipt, error) {
	basketID, err := s.baskets.FindBasket(ctx, shopperID, today)
	if errors.Is(err, basket.ErrNoActiveBasket) {
		return nil, ErrNoActiveBasket
	}
	if err != nil {
		return nil, err
	}

	lines, err := s.baskets.ListLines(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyBasket
	}

	return &Receipt{BasketID: basketID, Lines: lines, Total: basket.Total(lines)}, nil
}

func (s *service) History(ctx context.Context, shopperID int64) ([]HistoryRow, error) {
	return s.repo.History(ctx, shopperID)
}
