package middleware

import (
	"net/http"

	"lancer-be/internal/auth"
	"lancer-be/internal/logger"
	"lancer-be/internal/utils"

	"go.uber.org/zap"
)

type Authenticator struct {
	tokens *auth.Tokens
}

func NewAuthenticator(tokens *auth.Tokens) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Middleware puts the caller's identity into the request context. Requests
// without a token pass through anonymously; a token that fails to verify is
// rejected.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.tokens.Parse(tokenStr)
		if err != nil {
			logger.FromCtx(r.Context()).Debug("Rejected access token", zap.Error(err))
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := utils.WithAccount(r.Context(), utils.Account{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		ctx = logger.WithFields(ctx, zap.Uint("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.AccountID(r.Context()); !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
