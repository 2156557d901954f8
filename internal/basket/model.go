package basket

import (
	"time"

	"github.com/shopspring/decimal"
)

// Basket is one shopper's in-progress cart for a single calendar day.
type Basket struct {
	ID         int64     `json:"id"`
	ShopperID  int64     `json:"shopper_id"`
	BasketDate time.Time `json:"basket_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// Line is a stored basket line. UnitPrice is the offer price captured when the
// product+seller pair was first added and never refreshed afterwards.
type Line struct {
	ID        int64           `json:"id"`
	BasketID  int64           `json:"basket_id"`
	ProductID int64           `json:"product_id"`
	SellerID  int64           `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LineView is the display row returned by ListLines.
type LineView struct {
	LineRef            int64           `json:"line_ref"`
	ProductDescription string          `json:"product_description"`
	SellerName         string          `json:"seller_name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// View is today's basket as shown to the shopper. BasketID is zero when no
// basket exists yet today.
type View struct {
	BasketID int64           `json:"basket_id"`
	Lines    []LineView      `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

type AddLineParams struct {
	BasketID  int64
	ProductID int64
	SellerID  int64
	Quantity  int
	UnitPrice decimal.Decimal
}

type AddToBasketParams struct {
	ShopperID int64
	Today     time.Time
	ProductID int64
	SellerID  int64
	Quantity  int
}

// Total sums the line totals.
func Total(lines []LineView) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
