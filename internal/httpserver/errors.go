package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/authz"
	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/service"
)

// httpError maps a service error onto a status. Unknown errors become an
// opaque 500; the cause stays in the log.
func httpError(l *slog.Logger, event string, err error) error {
	var (
		code int
		msg  string
	)
	switch {
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, credentials.ErrDuplicateIdentity):
		code, msg = http.StatusConflict, "username or email already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, authz.ErrForbidden):
		code, msg = http.StatusForbidden, "you can only modify your own posts"
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrSearchUnavailable):
		code, msg = http.StatusServiceUnavailable, "search is unavailable"
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").WithInternal(err)
	}

	l.Warn(event, "status", code, "reason", msg)
	return echo.NewHTTPError(code, msg).WithInternal(err)
}

func badBody(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body").WithInternal(err)
}
