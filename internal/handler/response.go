package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ProblemDetails is an RFC 7807 body returned by the JSON endpoints
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Error types
const (
	ErrorTypeNotFound = "https://planner.app/errors/not-found"
	ErrorTypeUpstream = "https://planner.app/errors/upstream"
)

func problem(c echo.Context, status int, errorType, detail string) error {
	return c.JSON(status, ProblemDetails{
		Type:     errorType,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewNotFoundError answers 404
func NewNotFoundError(c echo.Context, detail string) error {
	return problem(c, http.StatusNotFound, ErrorTypeNotFound, detail)
}

// NewUpstreamError answers 502 for a failed planner API call
func NewUpstreamError(c echo.Context, detail string) error {
	return problem(c, http.StatusBadGateway, ErrorTypeUpstream, detail)
}
