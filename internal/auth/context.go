package auth

import "context"

type ctxKey string

const shopperIDKey ctxKey = "shopper_id"

func WithShopperID(ctx context.Context, shopperID int64) context.Context {
	return context.WithValue(ctx, shopperIDKey, shopperID)
}

func ShopperIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(shopperIDKey).(int64)
	return id, ok && id > 0
}
