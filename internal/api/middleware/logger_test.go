package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func serveLogged(t *testing.T, path string, h echo.HandlerFunc) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET(path, h)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	if buf.Len() == 0 {
		return nil
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestRequestLogger_Success(t *testing.T) {
	entry := serveLogged(t, "/api/posts", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if entry["level"] != "info" || entry["status"] != float64(200) || entry["route"] != "/api/posts" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("expected request id from header, got %v", entry["request_id"])
	}
}

func TestRequestLogger_ServerError(t *testing.T) {
	entry := serveLogged(t, "/boom", func(c echo.Context) error {
		return errors.New("kaboom")
	})
	if entry["level"] != "error" || entry["status"] != float64(500) {
		t.Errorf("unexpected entry %v", entry)
	}
	if !strings.Contains(entry["error"].(string), "kaboom") {
		t.Errorf("expected error in entry, got %v", entry["error"])
	}
}

func TestRequestLogger_SkipsProbes(t *testing.T) {
	entry := serveLogged(t, "/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if entry != nil {
		t.Errorf("expected no log for /health, got %v", entry)
	}
}
