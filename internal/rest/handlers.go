package rest

import (
	"net/http"
	"time"

	"parana-shopper/internal/auth"
	"parana-shopper/internal/basket"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/input"
	"parana-shopper/internal/metrics"
)

type loginRequest struct {
	ShopperID int64 `json:"shopper_id"`
}

type loginResponse struct {
	Token       string `json:"token"`
	ShopperID   int64  `json:"shopper_id"`
	DisplayName string `json:"display_name"`
}

type addLineRequest struct {
	ProductID int64 `json:"product_id"`
	SellerID  int64 `json:"seller_id"`
	Quantity  int   `json:"quantity"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

type healthResponse struct {
	Status      string           `json:"status"`
	Metrics     metrics.Snapshot `json:"metrics"`
	CacheHits   int64            `json:"cache_hits"`
	CacheMisses int64            `json:"cache_misses"`
}

func (h *handler) today() time.Time {
	return clock.Today(h.Clock)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Metrics: h.Stats.Snapshot()}
	if h.Cache != nil {
		resp.CacheHits, resp.CacheMisses = h.Cache.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	s, err := h.Shoppers.Login(r.Context(), req.ShopperID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	token, err := h.Issuer.Generate(s.ID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ShopperID: s.ID, DisplayName: s.DisplayName()})
}

func (h *handler) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Catalog.Categories(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *handler) products(w http.ResponseWriter, r *http.Request) {
	categoryID, err := input.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	products, err := h.Catalog.Products(r.Context(), categoryID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *handler) offers(w http.ResponseWriter, r *http.Request) {
	productID, err := input.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	offers, err := h.Catalog.Offers(r.Context(), productID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := auth.ShopperIDFrom(r.Context())

	rows, err := h.Orders.History(r.Context(), shopperID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handler) viewBasket(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := auth.ShopperIDFrom(r.Context())

	view, err := h.Baskets.ViewBasket(r.Context(), shopperID, h.today())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) addLine(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := auth.ShopperIDFrom(r.Context())

	var req addLineRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	line, err := h.Baskets.AddToBasket(r.Context(), basket.AddToBasketParams{
		ShopperID: shopperID,
		Today:     h.today(),
		ProductID: req.ProductID,
		SellerID:  req.SellerID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

// basketLine resolves today's basket and the {id} line reference of the path.
func (h *handler) basketLine(r *http.Request) (basketID, lineRef int64, err error) {
	shopperID, _ := auth.ShopperIDFrom(r.Context())

	lineRef, err = input.ParseID(r.PathValue("id"))
	if err != nil {
		return 0, 0, err
	}

	basketID, err = h.Baskets.FindBasket(r.Context(), shopperID, h.today())
	if err != nil {
		return 0, 0, err
	}
	return basketID, lineRef, nil
}

func (h *handler) updateLine(w http.ResponseWriter, r *http.Request) {
	var req updateLineRequest
	if err := decode(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	basketID, lineRef, err := h.basketLine(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.Baskets.UpdateQuantity(r.Context(), basketID, lineRef, req.Quantity); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeLine(w http.ResponseWriter, r *http.Request) {
	basketID, lineRef, err := h.basketLine(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := h.Baskets.RemoveLine(r.Context(), basketID, lineRef); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	shopperID, _ := auth.ShopperIDFrom(r.Context())

	o, err := h.Orders.Checkout(r.Context(), shopperID, h.today())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}
