package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/config"
	"shipment-planner/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew verifies that New creates a Server with the correct configuration.
func TestNew(t *testing.T) {
	cfg := &config.AppConfig{
		ServerPort: 8080,
	}

	logger.Init("development", "debug")
	srv := New(cfg)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.App)
	assert.Equal(t, cfg, srv.cfg)
}

// TestServer_Run_Error verifies that Run returns an error when binding fails (e.g., privileged port).
func TestServer_Run_Error(t *testing.T) {
	// Privileged port 1 should fail
	cfg := &config.AppConfig{
		ServerPort: 1,
	}
	logger.Init("development", "error")

	srv := New(cfg)

	errCh := make(chan error)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(1 * time.Second):
		srv.App.Shutdown()
		t.Log("Server unexpectedly started or timed out on Error test")
	}
}

func TestServer_Health(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		srv := New(&config.AppConfig{}, HealthCheck{Name: "database", Check: func(context.Context) error { return nil }})

		resp, err := srv.App.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))

		var env Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.True(t, env.Success)
		assert.Equal(t, map[string]any{"database": "ok"}, env.Data)
		assert.Equal(t, resp.Header.Get("X-Ray-ID"), env.RayID)
	})

	t.Run("Unhealthy", func(t *testing.T) {
		srv := New(&config.AppConfig{},
			HealthCheck{Name: "database", Check: func(context.Context) error { return nil }},
			HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
		)

		resp, err := srv.App.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var env Response
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.False(t, env.Success)
		assert.Equal(t, "connection refused", env.Data.(map[string]any)["redis"])
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := New(&config.AppConfig{})

	resp, err := srv.App.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"Validation", apperror.Validation("bad id"), http.StatusBadRequest},
		{"NotFound", apperror.NotFound("shipment 1"), http.StatusNotFound},
		{"Conflict", apperror.Conflict("truck 2 is not available"), http.StatusConflict},
		{"Upstream", apperror.NewUpstream("optimizer", http.StatusBadGateway, "malformed"), http.StatusBadGateway},
		{"Fiber", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{"Unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Use(func(c *fiber.Ctx) error {
				c.Locals("requestid", "ray-1")
				return c.Next()
			})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.code, resp.StatusCode)

			var env Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
			assert.False(t, env.Success)
			assert.Equal(t, tc.code, env.Code)
			assert.Equal(t, tc.err.Error(), env.Error)
			assert.Equal(t, "ray-1", env.RayID)
		})
	}
}

func TestUserContext(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "ray-2")
		return c.Next()
	})

	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = logger.RayID(UserContext(c))
		return OK(c, "ok", nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ray-2", got)
}
