package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"reviewhub/internal/requestctx"
)

// RequestID keeps an incoming X-Request-ID or mints one, and stamps the
// request metadata later read by audit and access logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := requestctx.With(r.Context(), requestctx.Meta{
			RequestID: reqID,
			ClientIP:  requestctx.ClientIP(r),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.RequestID(ctx)
}
