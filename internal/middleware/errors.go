package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const errorTypeRateLimit = "https://planner.app/errors/rate-limit"

// problemDetails mirrors handler.ProblemDetails for responses written before
// a handler runs
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func tooManyRequestsError(c echo.Context, detail string) error {
	status := http.StatusTooManyRequests
	return c.JSON(status, problemDetails{
		Type:     errorTypeRateLimit,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}
