package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/interfaces/http/handlers/testutil"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all dependencies up", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"database": ok, "redis": ok})
		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)

		h.HealthCheck(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp healthBody
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, resp.Dependencies)
		assert.NotEmpty(t, resp.Version)
	})

	t.Run("failing dependency", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{
			"database": ok,
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)

		h.HealthCheck(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

type healthBody struct {
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}
