package auth

import (
	"net/http"
	"strings"
)

// CookieName is the cookie the HTTP API sets on login.
const CookieName = "access_token"

// ExtractAccessToken reads the bearer token from the session cookie, falling
// back to the Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}
