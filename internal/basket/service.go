package basket

import (
	"context"
	"time"

	"parana-shopper/internal/catalog"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/metrics"

	"go.uber.org/zap"
)

// OfferLookup resolves the current catalog price of a product from a seller.
type OfferLookup interface {
	Offer(ctx context.Context, productID, sellerID int64) (*catalog.Offer, error)
}

// Service owns the day-scoped basket and its line mutations. Every
// basket-scoped call takes the caller's "today"; the clock is only used to
// stamp creation times.
type Service interface {
	GetOrCreateBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error)
	FindBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error)
	AddLine(ctx context.Context, params AddLineParams) (*Line, error)
	AddToBasket(ctx context.Context, params AddToBasketParams) (*Line, error)
	UpdateQuantity(ctx context.Context, basketID, lineRef int64, quantity int) error
	RemoveLine(ctx context.Context, basketID, lineRef int64) error
	ListLines(ctx context.Context, basketID int64) ([]LineView, error)
	ViewBasket(ctx context.Context, shopperID int64, today time.Time) (*View, error)
}

type service struct {
	repo   Repository
	offers OfferLookup
	clock  clock.Clock
	stats  *metrics.Shop
}

func NewService(repo Repository, offers OfferLookup, clk clock.Clock, stats *metrics.Shop) Service {
	if stats == nil {
		stats = &metrics.Shop{}
	}
	return &service{repo: repo, offers: offers, clock: clk, stats: stats}
}

// GetOrCreateBasket returns today's basket for the shopper, creating it on the
// first call of the day. Repeated calls on the same day return the same id.
func (s *service) GetOrCreateBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error) {
	if shopperID <= 0 {
		return 0, ErrInvalidShopper
	}
	day := clock.Day(today)

	b, err := s.repo.FindBasket(ctx, shopperID, day)
	if err != nil {
		return 0, err
	}
	if b != nil {
		return b.ID, nil
	}

	b, created, err := s.repo.CreateBasket(ctx, shopperID, day, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if created {
		s.stats.BasketsCreated.Inc()
	}

	return b.ID, nil
}

// FindBasket is the lookup half of GetOrCreateBasket; it never creates.
func (s *service) FindBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error) {
	b, err := s.repo.FindBasket(ctx, shopperID, clock.Day(today))
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, ErrNoActiveBasket
	}
	return b.ID, nil
}

func (s *service) AddLine(ctx context.Context, params AddLineParams) (*Line, error) {
	if params.Quantity <= 0 {
		return nil, ErrQuantityNotPositive
	}

	line, err := s.repo.AddLine(ctx, params)
	if err != nil {
		return nil, err
	}

	s.stats.LinesAdded.Inc()
	return line, nil
}

// AddToBasket prices the selection from the catalog, then merges it into
// today's basket.
func (s *service) AddToBasket(ctx context.Context, params AddToBasketParams) (*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToBasket"),
		zap.Int64("shopper_id", params.ShopperID),
	)

	if params.Quantity <= 0 {
		return nil, ErrQuantityNotPositive
	}

	// 1. Price from the current offer
	offer, err := s.offers.Offer(ctx, params.ProductID, params.SellerID)
	if err != nil {
		log.Warn("offer lookup failed", zap.Error(err))
		return nil, err
	}

	// 2. Today's basket
	basketID, err := s.GetOrCreateBasket(ctx, params.ShopperID, params.Today)
	if err != nil {
		return nil, err
	}

	// 3. Insert or merge
	return s.AddLine(ctx, AddLineParams{
		BasketID:  basketID,
		ProductID: params.ProductID,
		SellerID:  params.SellerID,
		Quantity:  params.Quantity,
		UnitPrice: offer.Price,
	})
}

func (s *service) UpdateQuantity(ctx context.Context, basketID, lineRef int64, quantity int) error {
	if quantity <= 0 {
		return ErrQuantityNotPositive
	}
	return s.repo.UpdateQuantity(ctx, basketID, lineRef, quantity)
}

func (s *service) RemoveLine(ctx context.Context, basketID, lineRef int64) error {
	return s.repo.RemoveLine(ctx, basketID, lineRef)
}

func (s *service) ListLines(ctx context.Context, basketID int64) ([]LineView, error) {
	return s.repo.ListLines(ctx, basketID)
}

// ViewBasket lists today's basket. A shopper without a basket today gets an
// empty view, not an error.
func (s *service) ViewBasket(ctx context.Context, shopperID int64, today time.Time) (*View, error) {
	b, err := s.repo.FindBasket(ctx, shopperID, clock.Day(today))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return &View{Lines: []LineView{}, Total: Total(nil)}, nil
	}

	lines, err := s.repo.ListLines(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return &View{BasketID: b.ID, Lines: lines, Total: Total(lines)}, nil
}
