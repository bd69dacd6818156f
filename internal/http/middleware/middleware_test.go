package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/config"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestRateLimitedHandler(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limits := NewRateLimitConfig(client, config.RateLimit{ContactPerMinute: 2, UploadPerMinute: 10})
	handler := limits.RateLimitedHandler(ActionContact, ok)

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := call("10.0.0.1:5000")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "60", first.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5001").Code)

	limited := call("10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, limited.Body.String(), "rate limit exceeded")

	// other clients have their own bucket
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000").Code)
}

func TestRateLimitedHandler_NilConfig(t *testing.T) {
	var limits *RateLimitConfig
	rec := httptest.NewRecorder()
	limits.RateLimitedHandler(ActionUpload, ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	limits := NewRateLimitConfig(client, config.RateLimit{ContactPerMinute: 1, UploadPerMinute: 1})
	rec := httptest.NewRecorder()
	limits.RateLimitedHandler(ActionUpload, ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestClientAddress(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{"remote host", "192.168.1.7:41000", "", "192.168.1.7"},
		{"forwarded first hop", "10.0.0.1:80", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
		{"blank forwarded", "10.0.0.1:80", " ,10.0.0.3", "10.0.0.1"},
		{"no port", "unix", "", "unix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.fwd != "" {
				req.Header.Set("X-Forwarded-For", tt.fwd)
			}
			assert.Equal(t, tt.want, ClientAddress(req))
		})
	}
}

func TestRequestLogger_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.Contains(t, buf.String(), "Recovered from panic")
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"status":404`)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(ok), mark("first"), mark("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second"}, order)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://portfolio.example"})(http.HandlerFunc(ok))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://portfolio.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
