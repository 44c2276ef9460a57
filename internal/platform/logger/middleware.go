package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger returns a chi-compatible middleware that logs each request
// with method, route pattern, camera, status, duration_ms, and response size.
// Frame posts arrive at capture rate, so successful ones are logged at debug.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("duration_ms", int(time.Since(start).Milliseconds())),
				slog.Int("size", ww.BytesWritten()),
			}
			level := slog.LevelInfo
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				attrs = append(attrs, slog.String("route", rctx.RoutePattern()))
				if id := rctx.URLParam("camera_id"); id != "" {
					attrs = append(attrs, slog.String("camera_id", id))
				}
				if rctx.RoutePattern() == framesRoute && status < 400 {
					level = slog.LevelDebug
				}
			}
			log.LogAttrs(r.Context(), level, "request", attrs...)
		})
	}
}

const framesRoute = "/cameras/{camera_id}/frames"
