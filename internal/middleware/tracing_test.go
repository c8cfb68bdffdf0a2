package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paytrack/paytrack-backend/internal/middleware"
)

func TestTracing(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("echoes a valid caller id", func(t *testing.T) {
		id := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set("X-Request-ID", id)

		w := httptest.NewRecorder()
		middleware.Tracing(next).ServeHTTP(w, req)

		assert.Equal(t, id, w.Header().Get("X-Request-ID"))
	})

	t.Run("replaces a non-uuid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
		req.Header.Set("X-Request-ID", "not-a-uuid")

		w := httptest.NewRecorder()
		middleware.Tracing(next).ServeHTTP(w, req)

		got := w.Header().Get("X-Request-ID")
		require.NotEqual(t, "not-a-uuid", got)
		assert.NoError(t, uuid.Validate(got))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)

		w := httptest.NewRecorder()
		middleware.Tracing(next).ServeHTTP(w, req)

		assert.NoError(t, uuid.Validate(w.Header().Get("X-Request-ID")))
	})
}
