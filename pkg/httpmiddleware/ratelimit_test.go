package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit(t *testing.T) {
	t.Run("UnderLimit", func(t *testing.T) {
		h := RateLimit(RateLimitConfig{Max: 3, Window: time.Minute})(okHandler())
		for i := range 3 {
			rec := hit(h, "10.0.0.1:1234", nil)
			assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		}
	})

	t.Run("OverLimit", func(t *testing.T) {
		h := RateLimit(RateLimitConfig{Max: 2, Window: time.Minute})(okHandler())
		hit(h, "10.0.0.1:1234", nil)
		hit(h, "10.0.0.1:1234", nil)

		rec := hit(h, "10.0.0.1:1234", nil)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(http.StatusTooManyRequests), body["code"])
		assert.Equal(t, "rate limit exceeded", body["message"])
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		h := RateLimit(RateLimitConfig{Max: 1, Window: time.Minute})(okHandler())
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", nil).Code)
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234", nil).Code)

		// Same client IP on a new connection shares the budget.
		assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:9999", nil).Code)
	})

	t.Run("Headers", func(t *testing.T) {
		h := RateLimit(RateLimitConfig{Max: 5, Window: time.Minute})(okHandler())
		rec := hit(h, "10.0.0.1:1234", nil)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("CustomKeyFunc", func(t *testing.T) {
		byKey := RateLimitConfig{
			Max:    1,
			Window: time.Minute,
			KeyFunc: func(r *http.Request) string {
				return r.Header.Get("api_key")
			},
		}
		h := RateLimit(byKey)(okHandler())
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", map[string]string{"api_key": "a"}).Code)
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", map[string]string{"api_key": "b"}).Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.2:2", map[string]string{"api_key": "a"}).Code)
	})
}

func TestDefaultKeyFunc(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		header     map[string]string
		want       string
	}{
		{"RemoteAddr", "10.0.0.1:1234", nil, "10.0.0.1"},
		{"XRealIP", "10.0.0.1:1234", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"XForwardedFor", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "203.0.113.9"},
		{
			"XForwardedForChain",
			"10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "203.0.113.9, 70.41.3.18, 150.172.238.178"},
			"203.0.113.9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, defaultKeyFunc(req))
		})
	}
}
