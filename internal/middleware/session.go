package middleware

import (
	"github.com/labstack/echo/v4"

	"nft-storefront/internal/service"
)

// Session annotates each request with the current login so handlers
// and the request logger can read it uniformly. It never rejects a
// request: the session gates storefront affordances, it is not an
// authorization boundary.
func Session(auth *service.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("authenticated", auth.IsAuthenticated())
			if user := auth.User(); user != nil {
				c.Set("user_email", user.Email)
			}
			return next(c)
		}
	}
}
