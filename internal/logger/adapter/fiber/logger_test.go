package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/logger"
	adapter "github.com/authcore/authcore/internal/logger/adapter/fiber"
)

type accessLine struct {
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Error  string `json:"error"`
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/checkalive", func(c fiber.Ctx) error {
		return c.SendString("alive")
	})
	app.Get("/boom", func(_ fiber.Ctx) error {
		return errors.New("boom")
	})

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantURI    string
		wantErr    bool
	}{
		{name: "root", target: "/", wantStatus: 200, wantURI: "/"},
		{name: "query kept", target: "/?test=123", wantStatus: 200, wantURI: "/?test=123"},
		{name: "not found", target: "/no_path//?test=123", wantStatus: 404, wantURI: "/no_path//?test=123"},
		{name: "handler error", target: "/boom", wantStatus: 500, wantURI: "/boom", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			app := newApp(adapter.Config{Output: &buf})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			var line accessLine
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())

			assert.Equal(t, tc.wantStatus, line.Status)
			assert.Equal(t, tc.wantURI, line.URI)
			assert.Equal(t, fiber.MethodGet, line.Method)
			assert.Equal(t, "example.com", line.Host)
			assert.Equal(t, tc.wantErr, line.Error != "")
		})
	}
}

func TestCheckAliveNotLogged(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(adapter.Config{
		Output:        &buf,
		CheckAliveURI: "/checkalive",
		Config:        logger.Log{DisableCheckAlive: true},
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestNextSkips(t *testing.T) {
	var buf bytes.Buffer

	app := newApp(adapter.Config{
		Output: &buf,
		Next:   func(_ fiber.Ctx) bool { return true },
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
