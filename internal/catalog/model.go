package catalog

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type Product struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Description string `json:"description"`
}

// Offer is one seller's current price for a product.
type Offer struct {
	ProductID  int64           `json:"product_id"`
	SellerID   int64           `json:"seller_id"`
	SellerName string          `json:"seller_name"`
	Price      decimal.Decimal `json:"price"`
}
