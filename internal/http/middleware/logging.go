package middleware

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/cors"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (w *statusResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	w.wroteHeader = true
	return h.Hijack()
}

// RequestLogger logs one line per request and turns panics into 500s.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if err := recover(); err != nil {
					logger.Error("Recovered from panic",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", err),
						slog.String("stack", string(debug.Stack())))
					if !srw.wroteHeader {
						response.WriteJSON(srw, http.StatusInternalServerError,
							response.GeneralError(errors.New("internal server error")))
					}
				}

				level := slog.LevelInfo
				switch {
				case srw.status >= 500:
					level = slog.LevelError
				case srw.status >= 400:
					level = slog.LevelWarn
				}
				logger.Log(r.Context(), level, "HTTP Request",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", srw.status),
					slog.Int64("duration_ms", time.Since(start).Milliseconds()),
					slog.String("remote_addr", ClientAddress(r)))
			}()

			next.ServeHTTP(srw, r)
		})
	}
}

// CORS allows the site front end to call the API from the listed origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// Chain applies middlewares so the first one listed runs first.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
