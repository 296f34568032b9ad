package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stores_api/internal/service"
)

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(id), nil
}

// messages holds the client-facing text for each service error kind of one
// operation. Empty entries fall back to a generic text.
type messages struct {
	notFound string
	conflict string
}

// fail logs err under event and converts it into the HTTP error for the
// client. Unknown errors become a 500 whose cause is only logged.
func fail(l *slog.Logger, event string, err error, m messages) error {
	var code int
	msg := ""
	switch {
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, or(m.notFound, "Not found.")
	case errors.Is(err, service.ErrConflict):
		code, msg = http.StatusBadRequest, or(m.conflict, "Already exists.")
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrStoreMismatch):
		code, msg = http.StatusBadRequest, "Make sure item and tag belong to the same store before linking."
	case errors.Is(err, service.ErrTagInUse):
		code, msg = http.StatusBadRequest, "Could not delete tag. Make sure tag is not associated with any items, then try again."
	case errors.Is(err, service.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, "Invalid credentials"
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "An error occurred while processing the request.").SetInternal(err)
	}
	l.Warn(event, "status", code, "reason", msg, "error", err)
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
