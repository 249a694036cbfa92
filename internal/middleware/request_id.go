package middleware

import (
	"github.com/dafibh/planner/planner-web/internal/client"
	"github.com/labstack/echo/v4"
)

// PropagateRequestID copies the request id assigned by echo's RequestID
// middleware into the request context, so calls to the planner API carry it.
// It must be registered after RequestID.
func PropagateRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(client.WithRequestID(req.Context(), id)))
			}
			return next(c)
		}
	}
}
