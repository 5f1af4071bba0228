package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vagnerhf/library/pkg/auth"
	md "github.com/vagnerhf/library/pkg/middleware"
)

// Authenticate accepts only a valid, non revoked bearer token and puts its claims into the request context.
func (h *Handler) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authorization := c.Request().Header.Get(md.AuthorizationHeader)
		if authorization == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "No Authorization Header")
		}
		if !strings.HasPrefix(authorization, md.Bearer) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
		}

		req := c.Request()
		claims, err := h.librarySvc.Authenticate(req.Context(), strings.TrimPrefix(authorization, md.Bearer))
		if err != nil {
			return toHTTPError(err)
		}
		c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), claims)))
		return next(c)
	}
}
