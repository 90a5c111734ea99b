// Package requestctx carries per-request metadata that audit entries and
// access logs both need, without coupling them to the HTTP middleware.
package requestctx

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Meta is stamped once per request by the request id middleware.
type Meta struct {
	RequestID string
	ClientIP  string
}

func With(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, ctxKey{}, meta)
}

func From(ctx context.Context) Meta {
	meta, _ := ctx.Value(ctxKey{}).(Meta)
	return meta
}

func RequestID(ctx context.Context) string {
	return From(ctx).RequestID
}

// ClientIP prefers the first X-Forwarded-For hop over the socket address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
