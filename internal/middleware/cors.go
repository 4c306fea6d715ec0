package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// OriginAllowed reports whether a request from origin may be served.
// Requests without an Origin header (same host, curl, mobile clients) are allowed.
func OriginAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return true
	}
	origin = strings.TrimRight(origin, "/")
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(strings.TrimRight(o, "/"), origin) {
			return true
		}
	}
	return false
}

// CORS restricts cross-origin access to the allowed origins
func CORS(allowed []string) echo.MiddlewareFunc {
	return eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			return OriginAllowed(allowed, origin), nil
		},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	})
}
