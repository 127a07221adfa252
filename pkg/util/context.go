package util

import (
	"context"
	"net/http"
	"strings"
)

type key string

const (
	clientIPKey = key("x-forwarded-for")

	// UnknownClientIP is used when the request carries no forwarding information.
	UnknownClientIP = "unknown"
)

// WithClientIP returns a context with a client ip
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns client ip from context
// will return UnknownClientIP if not present
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	if ip == "" {
		return UnknownClientIP
	}
	return ip
}

// ClientIPFromRequest returns the first address of the X-Forwarded-For header,
// or UnknownClientIP when the header is absent.
func ClientIPFromRequest(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return UnknownClientIP
	}

	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return UnknownClientIP
	}
	return first
}
