package middleware

import (
	"encoding/json"
	"net/http"

	"parana-shopper/internal/auth"
	"parana-shopper/internal/logger"

	"go.uber.org/zap"
)

// RequireShopper rejects requests without a valid session token and stores
// the authenticated shopper id in the request context.
func RequireShopper(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractAccessToken(r)
			if token == "" {
				unauthorized(w, "missing access token")
				return
			}

			claims, err := issuer.Parse(token)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected token", zap.Error(err))
				unauthorized(w, "invalid access token")
				return
			}

			ctx := auth.WithShopperID(r.Context(), claims.ShopperID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
