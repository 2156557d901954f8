package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parana-shopper/internal/basket"
	"parana-shopper/internal/input"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func money(d decimal.Decimal) string {
	return "£" + d.StringFixed(2)
}

func (c *Console) showHistory(ctx context.Context) error {
	rows, err := c.deps.Orders.History(ctx, c.shopper.ID)
	if err != nil {
		// A failed read is shown as no data; the session carries on.
		logger.FromCtx(ctx).Warn("history unavailable", zap.Error(err))
		rows = nil
	}

	if len(rows) == 0 {
		c.printf("\nNo orders found in your history.\n\n")
		return nil
	}

	c.printf("\nYour Order History:\n")
	c.printf("Shopper: %s\n", c.shopper.FullName())
	c.printf("%s\n", strings.Repeat("-", 80))
	c.printf("Order ID | Order Date | Product Description | Seller Name | Qty | Price | Status\n")
	c.printf("%s\n", strings.Repeat("-", 80))

	for _, r := range rows {
		c.printf("%8d | %10s | %-20s | %-10s | %3d | %6s | %s\n",
			r.OrderID,
			r.OrderDate.Format("02-01-2006"),
			r.ProductDescription,
			r.SellerName,
			r.Quantity,
			money(r.Price),
			r.Status,
		)
	}
	c.printf("\n")
	return nil
}

func (c *Console) addItem(ctx context.Context) error {
	today := c.today()

	// 1. Category
	categories, err := c.deps.Catalog.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		c.printf("\nNo categories available.\n\n")
		return nil
	}
	labels := make([]string, len(categories))
	for i, cat := range categories {
		labels[i] = cat.Description
	}
	idx, err := c.selectOption("Select a product category:", "category", labels)
	if err != nil {
		return err
	}
	categoryID := categories[idx].ID

	// 2. Product
	products, err := c.deps.Catalog.Products(ctx, categoryID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		c.printf("\nNo products in this category.\n\n")
		return nil
	}
	labels = make([]string, len(products))
	for i, p := range products {
		labels[i] = p.Description
	}
	if idx, err = c.selectOption("Select a product:", "product", labels); err != nil {
		return err
	}
	productID := products[idx].ID

	// 3. Seller
	offers, err := c.deps.Catalog.Offers(ctx, productID)
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		c.printf("\nNo sellers currently offer this product.\n\n")
		return nil
	}
	labels = make([]string, len(offers))
	for i, o := range offers {
		labels[i] = fmt.Sprintf("%s (%s)", o.SellerName, money(o.Price))
	}
	if idx, err = c.selectOption("Select a seller for this product:", "seller", labels); err != nil {
		return err
	}
	sellerID := offers[idx].SellerID

	// 4. Quantity
	var quantity int
	for {
		raw, err := c.prompt("Enter quantity (must be > 0): ")
		if err != nil {
			return err
		}
		quantity, err = input.ParseQuantity(raw)
		if err == nil {
			break
		}
		if errors.Is(err, input.ErrQuantityNotPositive) {
			c.printf("Quantity must be greater than 0.\n")
		} else {
			c.printf("Invalid input. Please enter a number.\n")
		}
	}

	// 5. Price lookup, basket and merge happen in the core
	if _, err := c.deps.Baskets.AddToBasket(ctx, basket.AddToBasketParams{
		ShopperID: c.shopper.ID,
		Today:     today,
		ProductID: productID,
		SellerID:  sellerID,
		Quantity:  quantity,
	}); err != nil {
		return err
	}

	c.printf("\nItem added to your basket.\n\n")
	return nil
}

func (c *Console) viewBasket(ctx context.Context) error {
	view, err := c.deps.Baskets.ViewBasket(ctx, c.shopper.ID, c.today())
	if err != nil {
		c.basketUnavailable(ctx, err)
		return nil
	}

	if len(view.Lines) == 0 {
		c.printf("\nYour basket is empty.\n\n")
		return nil
	}

	c.printf("\nYour Basket:\n")
	c.printLines(view.Lines)
	c.printf("\nBasket Total: %s\n", money(view.Total))
	return nil
}

// basketUnavailable reports a failed basket read as no data.
func (c *Console) basketUnavailable(ctx context.Context, err error) {
	logger.FromCtx(ctx).Warn("basket unavailable", zap.Error(err))
	c.printf("\nYour basket is unavailable right now.\n\n")
}

func (c *Console) printLines(lines []basket.LineView) {
	for _, l := range lines {
		c.printf("- %s from %s: %d x %s = %s\n",
			l.ProductDescription, l.SellerName, l.Quantity, money(l.UnitPrice), money(l.LineTotal))
	}
}

// pickLine shows today's basket lines and asks for one by its line reference.
// ok is false when there is nothing to pick from.
func (c *Console) pickLine(ctx context.Context, title, label string) (basketID, lineRef int64, ok bool, err error) {
	basketID, err = c.deps.Baskets.FindBasket(ctx, c.shopper.ID, c.today())
	if errors.Is(err, basket.ErrNoActiveBasket) {
		c.printf("\nNo active basket.\n\n")
		return 0, 0, false, nil
	}
	if err != nil {
		c.basketUnavailable(ctx, err)
		return 0, 0, false, nil
	}

	lines, err := c.deps.Baskets.ListLines(ctx, basketID)
	if err != nil {
		c.basketUnavailable(ctx, err)
		return 0, 0, false, nil
	}
	if len(lines) == 0 {
		c.printf("\nBasket is empty.\n\n")
		return 0, 0, false, nil
	}

	c.printf("\n%s\n", title)
	for _, l := range lines {
		c.printf("%d. %s (Quantity: %d)\n", l.LineRef, l.ProductDescription, l.Quantity)
	}

	raw, err := c.prompt("\n" + label)
	if err != nil {
		return 0, 0, false, err
	}
	lineRef, err = input.ParseID(raw)
	if err != nil {
		return 0, 0, false, err
	}

	return basketID, lineRef, true, nil
}

func (c *Console) changeQuantity(ctx context.Context) error {
	basketID, lineRef, ok, err := c.pickLine(ctx, "Current Basket:", "Enter the item ID to update: ")
	if err != nil || !ok {
		return err
	}

	raw, err := c.prompt("Enter new quantity: ")
	if err != nil {
		return err
	}
	quantity, err := input.ParseQuantity(raw)
	if err != nil {
		return err
	}

	if err := c.deps.Baskets.UpdateQuantity(ctx, basketID, lineRef, quantity); err != nil {
		return err
	}

	c.printf("\nQuantity updated.\n\n")
	return nil
}

func (c *Console) removeItem(ctx context.Context) error {
	basketID, lineRef, ok, err := c.pickLine(ctx, "Basket Items:", "Enter the item ID to remove: ")
	if err != nil || !ok {
		return err
	}

	if err := c.deps.Baskets.RemoveLine(ctx, basketID, lineRef); err != nil {
		return err
	}

	c.printf("\nItem removed from basket.\n\n")
	return nil
}

func (c *Console) checkout(ctx context.Context) error {
	today := c.today()

	receipt, err := c.deps.Orders.Preview(ctx, c.shopper.ID, today)
	if errors.Is(err, order.ErrNoActiveBasket) {
		c.printf("\nNo active basket.\n\n")
		return nil
	}
	if errors.Is(err, order.ErrEmptyBasket) {
		c.printf("\nYour basket is empty.\n\n")
		return nil
	}
	if err != nil {
		return err
	}

	c.printf("\nCheckout Receipt:\n")
	c.printLines(receipt.Lines)
	c.printf("\nGrand Total: %s\n", money(receipt.Total))

	raw, err := c.prompt("\nProceed to checkout? (y/n): ")
	if err != nil {
		return err
	}
	if !input.Confirmed(raw) {
		c.printf("\nCheckout cancelled.\n\n")
		return nil
	}

	o, err := c.deps.Orders.Checkout(ctx, c.shopper.ID, today)
	if err != nil {
		return err
	}

	c.printf("\nCheckout complete! Order ID: %d\n\n", o.ID)
	return nil
}
