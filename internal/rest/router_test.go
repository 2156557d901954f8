package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/auth"
	"parana-shopper/internal/basket"
	"parana-shopper/internal/catalog"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/metrics"
	"parana-shopper/internal/mocks"
	"parana-shopper/internal/order"
	"parana-shopper/internal/shopper"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testNow = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)
	testDay = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
)

type fakeCache struct{ hits, misses int64 }

func (f fakeCache) Stats() (int64, int64) { return f.hits, f.misses }

type fixture struct {
	shoppers *mocks.ShopperService
	catalog  *mocks.CatalogService
	baskets  *mocks.BasketService
	orders   *mocks.OrderService
	issuer   *auth.Issuer
	stats    *metrics.Shop
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clk := clock.NewFixed(testNow)
	issuer, err := auth.NewIssuer("test-secret", time.Hour, clk)
	require.NoError(t, err)

	f := &fixture{
		shoppers: new(mocks.ShopperService),
		catalog:  new(mocks.CatalogService),
		baskets:  new(mocks.BasketService),
		orders:   new(mocks.OrderService),
		issuer:   issuer,
		stats:    &metrics.Shop{},
	}
	f.router = NewRouter(Deps{
		Clock:    clk,
		Issuer:   issuer,
		Shoppers: f.shoppers,
		Catalog:  f.catalog,
		Baskets:  f.baskets,
		Orders:   f.orders,
		Stats:    f.stats,
		Cache:    fakeCache{hits: 3, misses: 1},
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, shopperID int64) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if shopperID > 0 {
		token, err := f.issuer.Generate(shopperID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(basket.ErrLineNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(basket.ErrQuantityNotPositive))
	assert.Equal(t, http.StatusConflict, statusFor(order.ErrEmptyBasket))
	assert.Equal(t, http.StatusInternalServerError, statusFor(apperror.Storage(errors.New("boom"))))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("unknown")))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	f.stats.OrdersCommitted.Inc()

	w := f.do(t, "GET", "/healthz", "", 0)

	require.Equal(t, http.StatusOK, w.Code)
	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint64(1), resp.Metrics.OrdersCommitted)
	assert.Equal(t, int64(3), resp.CacheHits)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.shoppers.On("Login", mock.Anything, int64(1)).
			Return(&shopper.Shopper{ID: 1, FirstName: "Ann", Surname: "Lee"}, nil)

		w := f.do(t, "POST", "/login", `{"shopper_id": 1}`, 0)

		require.Equal(t, http.StatusOK, w.Code)
		var resp loginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ann", resp.DisplayName)

		claims, err := f.issuer.Parse(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.ShopperID)
		assert.Contains(t, w.Header().Get("Set-Cookie"), auth.CookieName+"=")
	})

	t.Run("Unknown Shopper", func(t *testing.T) {
		f := newFixture(t)
		f.shoppers.On("Login", mock.Anything, int64(99)).Return(nil, shopper.ErrShopperNotFound)

		w := f.do(t, "POST", "/login", `{"shopper_id": 99}`, 0)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "shopper not found")
	})

	t.Run("Malformed Body", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, "POST", "/login", `{"shopper_id": "abc"`, 0)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.shoppers.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestCatalog(t *testing.T) {
	t.Run("Categories", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.On("Categories", mock.Anything).Return([]catalog.Category{{ID: 1, Description: "Drinks"}}, nil)

		w := f.do(t, "GET", "/catalog/categories", "", 0)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Drinks")
	})

	t.Run("Products", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.On("Products", mock.Anything, int64(3)).Return([]catalog.Product{{ID: 10, CategoryID: 3, Description: "Tea"}}, nil)

		w := f.do(t, "GET", "/catalog/categories/3/products", "", 0)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Tea")
	})

	t.Run("Offers Bad ID", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, "GET", "/catalog/products/abc/offers", "", 0)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Offers Storage Failure", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.On("Offers", mock.Anything, int64(10)).Return(nil, apperror.Storage(errors.New("pq: timeout")))

		w := f.do(t, "GET", "/catalog/products/10/offers", "", 0)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq: timeout")
	})
}

func TestBasketRoutes(t *testing.T) {
	t.Run("Requires Login", func(t *testing.T) {
		f := newFixture(t)

		w := f.do(t, "GET", "/basket", "", 0)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("View", func(t *testing.T) {
		f := newFixture(t)
		p := decimal.RequireFromString("1.50")
		lines := []basket.LineView{{LineRef: 1, ProductDescription: "Tea", SellerName: "Acme", Quantity: 2, UnitPrice: p, LineTotal: p.Mul(decimal.NewFromInt(2))}}
		f.baskets.On("ViewBasket", mock.Anything, int64(1), testDay).
			Return(&basket.View{BasketID: 7, Lines: lines, Total: basket.Total(lines)}, nil)

		w := f.do(t, "GET", "/basket", "", 1)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total":"3"`)
		f.baskets.AssertExpectations(t)
	})

	t.Run("Add Line", func(t *testing.T) {
		f := newFixture(t)
		f.baskets.On("AddToBasket", mock.Anything, basket.AddToBasketParams{
			ShopperID: 1, Today: testDay, ProductID: 10, SellerID: 2, Quantity: 3,
		}).Return(&basket.Line{ID: 5, BasketID: 7, ProductID: 10, SellerID: 2, Quantity: 3}, nil)

		w := f.do(t, "POST", "/basket/lines", `{"product_id":10,"seller_id":2,"quantity":3}`, 1)

		assert.Equal(t, http.StatusCreated, w.Code)
		f.baskets.AssertExpectations(t)
	})

	t.Run("Add Line Zero Quantity", func(t *testing.T) {
		f := newFixture(t)
		f.baskets.On("AddToBasket", mock.Anything, mock.Anything).Return(nil, basket.ErrQuantityNotPositive)

		w := f.do(t, "POST", "/basket/lines", `{"product_id":10,"seller_id":2,"quantity":0}`, 1)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "quantity must be positive")
	})

	t.Run("Update Line", func(t *testing.T) {
		f := newFixture(t)
		f.baskets.On("FindBasket", mock.Anything, int64(1), testDay).Return(int64(7), nil)
		f.baskets.On("UpdateQuantity", mock.Anything, int64(7), int64(4), 6).Return(nil)

		w := f.do(t, "PATCH", "/basket/lines/4", `{"quantity":6}`, 1)

		assert.Equal(t, http.StatusNoContent, w.Code)
		f.baskets.AssertExpectations(t)
	})

	t.Run("Update Line Not Found", func(t *testing.T) {
		f := newFixture(t)
		f.baskets.On("FindBasket", mock.Anything, int64(1), testDay).Return(int64(7), nil)
		f.baskets.On("UpdateQuantity", mock.Anything, int64(7), int64(99), 2).Return(basket.ErrLineNotFound)

		w := f.do(t, "PATCH", "/basket/lines/99", `{"quantity":2}`, 1)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Remove Line Without Basket", func(t *testing.T) {
		f := newFixture(t)
		f.baskets.On("FindBasket", mock.Anything, int64(1), testDay).Return(int64(0), basket.ErrNoActiveBasket)

		w := f.do(t, "DELETE", "/basket/lines/4", "", 1)

		assert.Equal(t, http.StatusNotFound, w.Code)
		f.baskets.AssertNotCalled(t, "RemoveLine", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Remove Line", func(t *testing.T) {
		f := newFixture(t)
		f.baskets.On("FindBasket", mock.Anything, int64(1), testDay).Return(int64(7), nil)
		f.baskets.On("RemoveLine", mock.Anything, int64(7), int64(4)).Return(nil)

		w := f.do(t, "DELETE", "/basket/lines/4", "", 1)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestOrderRoutes(t *testing.T) {
	t.Run("Checkout", func(t *testing.T) {
		f := newFixture(t)
		f.orders.On("Checkout", mock.Anything, int64(1), testDay).
			Return(&order.Order{ID: 42, ShopperID: 1, OrderDate: testDay, Status: order.StatusPlaced}, nil)

		w := f.do(t, "POST", "/checkout", "", 1)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Placed"`)
	})

	t.Run("Checkout Empty Basket", func(t *testing.T) {
		f := newFixture(t)
		f.orders.On("Checkout", mock.Anything, int64(1), testDay).Return(nil, order.ErrEmptyBasket)

		w := f.do(t, "POST", "/checkout", "", 1)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "empty basket")
	})

	t.Run("History", func(t *testing.T) {
		f := newFixture(t)
		f.orders.On("History", mock.Anything, int64(2)).Return([]order.HistoryRow{
			{OrderID: 9, OrderDate: testDay, ProductDescription: "Tea", SellerName: "Acme", Quantity: 1, Price: decimal.RequireFromString("2.00"), Status: order.StatusPlaced},
		}, nil)

		w := f.do(t, "GET", "/orders", "", 2)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"order_id":9`)
	})
}
