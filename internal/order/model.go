package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

// StatusPlaced is the initial status of every order and order line.
const StatusPlaced Status = "Placed"

type Order struct {
	ID        int64     `json:"id"`
	ShopperID int64     `json:"shopper_id"`
	OrderDate time.Time `json:"order_date"`
	Status    Status    `json:"status"`
	Lines     []Line    `json:"lines"`
}

// Line is an order line: a by-value copy of a basket line at commit time.
type Line struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	SellerID  int64           `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    Status          `json:"status"`
}

// Total is the sum of quantity × price over the order lines.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// HistoryRow is one flattened order line of a shopper's history.
type HistoryRow struct {
	OrderID            int64           `json:"order_id"`
	OrderDate          time.Time       `json:"order_date"`
	ProductDescription string          `json:"product_description"`
	SellerName         string          `json:"seller_name"`
	Quantity           int             `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	Status             Status          `json:"status"`
}
