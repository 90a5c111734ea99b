package middleware

import (
	"context"
	"net/http"
	"strings"

	"reviewhub/internal/domain/auth"
	"reviewhub/internal/transport/http/api"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Auth attaches the caller from a valid bearer token. Requests without one
// pass through anonymous; RequireAuth rejects them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), auth.UserContext{
				UserID:   claims.UserID,
				OrgID:    claims.OrgID,
				RoleName: claims.RoleName,
			})))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
