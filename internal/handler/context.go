package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"jobtrack/internal/auth"
	"jobtrack/internal/errors"
	"jobtrack/internal/loader"
)

const (
	// IdentityContextKey is where the router middleware stores the resolved identity.
	IdentityContextKey = "identity"
	// UserLoaderContextKey is where the router middleware stores the per-request user loader.
	UserLoaderContextKey = "user_loader"
)

// identityFromContext returns the resolved identity, or the zero identity
// when the request is unauthenticated.
func identityFromContext(c echo.Context) auth.Identity {
	identity, ok := c.Get(IdentityContextKey).(auth.Identity)
	if !ok {
		return auth.Identity{}
	}
	return identity
}

// userLoaderFromContext returns the request-scoped user loader.
func userLoaderFromContext(c echo.Context) *loader.UserLoader {
	l, _ := c.Get(UserLoaderContextKey).(*loader.UserLoader)
	return l
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_ID",
		})
	}
	return uint(id), nil
}

// domainError maps a service error to the wire-level error contract.
func domainError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
