package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func TestPropagateRequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/simulations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := func(c echo.Context) error {
		seen = client.RequestIDFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}

	chain := echomiddleware.RequestID()(PropagateRequestID()(handler))
	if err := chain(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if seen == "" {
		t.Fatal("Expected a request id in the context")
	}
	if got := rec.Header().Get(echo.HeaderXRequestID); got != seen {
		t.Errorf("Expected context id %q to match response header %q", seen, got)
	}
}

func TestPropagateRequestID_KeepsIncomingID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := func(c echo.Context) error {
		seen = client.RequestIDFrom(c.Request().Context())
		return nil
	}

	if err := echomiddleware.RequestID()(PropagateRequestID()(handler))(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if seen != "abc-123" {
		t.Errorf("Expected abc-123, got %q", seen)
	}
}
