package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	domainerrors "plantcare/internal/domain/errors"
)

// guestRoute is one method/path pattern a guest principal may reach.
type guestRoute struct {
	method  string
	pattern *regexp.Regexp
}

// guestAllowlist enumerates every route open to guest-audience tokens. The
// patterns are anchored and the only wildcard is a numeric id segment, so the
// list cannot accidentally widen when new routes are added.
var guestAllowlist = []guestRoute{
	{http.MethodGet, regexp.MustCompile(`^/me$`)},
	{http.MethodGet, regexp.MustCompile(`^/my-plants$`)},
	{http.MethodGet, regexp.MustCompile(`^/my-plants/[0-9]+$`)},
	{http.MethodPost, regexp.MustCompile(`^/my-plants/[0-9]+/watering$`)},
}

// guestAllowed reports whether a guest may reach the method/path pair.
func guestAllowed(method, path string) bool {
	for _, route := range guestAllowlist {
		if route.method == method && route.pattern.MatchString(path) {
			return true
		}
	}

	return false
}

// GuestGate rejects guest principals outside the allowlist. It must run after
// Authenticate; owner principals pass through untouched.
func (m *AuthMiddleware) GuestGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authUser, ok := GetAuthUser(c)
		if !ok {
			return domainerrors.ErrUnauthorized.WrapMessage("identity missing from request")
		}

		if authUser.IsGuest && !guestAllowed(c.Request().Method, c.Request().URL.Path) {
			return domainerrors.ErrForbidden.WrapMessage("route not available to guests")
		}

		return next(c)
	}
}
