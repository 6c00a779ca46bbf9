package auth

import (
	"net/http"
	"strings"
)

const (
	AccessTokenCookie = "access_token"
	bearerPrefix      = "Bearer "
)

// ExtractAccessToken reads the access token from the access_token cookie,
// falling back to an Authorization: Bearer header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	}

	return ""
}
