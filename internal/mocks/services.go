// Package mocks holds testify mocks of the service interfaces consumed by the
// presentation layers.
package mocks

import (
	"context"
	"time"

	"parana-shopper/internal/basket"
	"parana-shopper/internal/catalog"
	"parana-shopper/internal/order"
	"parana-shopper/internal/shopper"

	"github.com/stretchr/testify/mock"
)

type ShopperService struct {
	mock.Mock
}

func (m *ShopperService) Login(ctx context.Context, shopperID int64) (*shopper.Shopper, error) {
	args := m.Called(ctx, shopperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopper.Shopper), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) Categories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *CatalogService) Products(ctx context.Context, categoryID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *CatalogService) Offers(ctx context.Context, productID int64) ([]catalog.Offer, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Offer), args.Error(1)
}

func (m *CatalogService) Offer(ctx context.Context, productID, sellerID int64) (*catalog.Offer, error) {
	args := m.Called(ctx, productID, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offer), args.Error(1)
}

type BasketService struct {
	mock.Mock
}

func (m *BasketService) GetOrCreateBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error) {
	args := m.Called(ctx, shopperID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BasketService) FindBasket(ctx context.Context, shopperID int64, today time.Time) (int64, error) {
	args := m.Called(ctx, shopperID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BasketService) AddLine(ctx context.Context, params basket.AddLineParams) (*basket.Line, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*basket.Line), args.Error(1)
}

func (m *BasketService) AddToBasket(ctx context.Context, params basket.AddToBasketParams) (*basket.Line, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*basket.Line), args.Error(1)
}

func (m *BasketService) UpdateQuantity(ctx context.Context, basketID, lineRef int64, quantity int) error {
	args := m.Called(ctx, basketID, lineRef, quantity)
	return args.Error(0)
}

func (m *BasketService) RemoveLine(ctx context.Context, basketID, lineRef int64) error {
	args := m.Called(ctx, basketID, lineRef)
	return args.Error(0)
}

func (m *BasketService) ListLines(ctx context.Context, basketID int64) ([]basket.LineView, error) {
	args := m.Called(ctx, basketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]basket.LineView), args.Error(1)
}

func (m *BasketService) ViewBasket(ctx context.Context, shopperID int64, today time.Time) (*basket.View, error) {
	args := m.Called(ctx, shopperID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*basket.View), args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) Commit(ctx context.Context, basketID, shopperID int64, today time.Time) (int64, error) {
	args := m.Called(ctx, basketID, shopperID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderService) Checkout(ctx context.Context, shopperID int64, today time.Time) (*order.Order, error) {
	args := m.Called(ctx, shopperID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *OrderService) Preview(ctx context.Context, shopperID int64, today time.Time) (*order.Receipt, error) {
	args := m.Called(ctx, shopperID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Receipt), args.Error(1)
}

func (m *OrderService) History(ctx context.Context, shopperID int64) ([]order.HistoryRow, error) {
	args := m.Called(ctx, shopperID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.HistoryRow), args.Error(1)
}

var (
	_ shopper.Service = (*ShopperService)(nil)
	_ catalog.Service = (*CatalogService)(nil)
	_ basket.Service  = (*BasketService)(nil)
	_ order.Service   = (*OrderService)(nil)
)
