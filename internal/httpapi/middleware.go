package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/util"
)

// RequestID stores the incoming X-Request-ID, or a fresh one, in the request
// context and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.ContextWithRequestID(r.Context(), r.Header.Get(util.RequestIDHeader))
		w.Header().Set(util.RequestIDHeader, util.GetRequestID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP stores the first X-Forwarded-For address in the request context.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithClientIP(r.Context(), util.ClientIPFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "HTTP request", logger.Field{
				Key:   "method",
				Value: r.Method,
			}, logger.Field{
				Key:   "path",
				Value: r.URL.Path,
			}, logger.Field{
				Key:   "status",
				Value: ww.Status(),
			}, logger.Field{
				Key:   "durationMs",
				Value: time.Since(start).Milliseconds(),
			}, logger.Field{
				Key:   "clientIp",
				Value: util.GetClientIP(r.Context()),
			})
		})
	}
}
