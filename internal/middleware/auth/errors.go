package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stores_api/internal/tokens"
)

var (
	ErrTokenMissing         = errors.New("token missing")
	ErrTokenInvalid         = tokens.ErrTokenInvalid
	ErrTokenExpired         = tokens.ErrTokenExpired
	ErrTokenRevoked         = errors.New("token revoked")
	ErrFreshTokenRequired   = errors.New("fresh token required")
	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrAdminRequired        = errors.New("admin privilege required")
)

// Reason names the rejection kind for logs. Errors that are not rejections
// report "internal".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "missing"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrRefreshTokenRequired):
		return "invalid"
	case errors.Is(err, ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, ErrFreshTokenRequired):
		return "not_fresh"
	case errors.Is(err, ErrAdminRequired):
		return "unauthorized"
	default:
		return "internal"
	}
}

// HTTPError turns a rejection into its 401 response envelope.
func HTTPError(err error) *echo.HTTPError {
	var body map[string]string
	switch {
	case errors.Is(err, ErrTokenMissing):
		body = map[string]string{"description": "Request does not contain an access token.", "error": "authorization_required"}
	case errors.Is(err, ErrTokenExpired):
		body = map[string]string{"message": "The token has expired.", "error": "token_expired"}
	case errors.Is(err, ErrRefreshTokenRequired):
		body = map[string]string{"message": "Only refresh tokens are allowed.", "error": "invalid_token"}
	case errors.Is(err, ErrTokenInvalid):
		body = map[string]string{"message": "Signature verification failed.", "error": "invalid_token"}
	case errors.Is(err, ErrTokenRevoked):
		body = map[string]string{"description": "The token has been revoked", "error": "token_revoked"}
	case errors.Is(err, ErrFreshTokenRequired):
		body = map[string]string{"description": "The token is not fresh.", "error": "fresh_token_required"}
	case errors.Is(err, ErrAdminRequired):
		body = map[string]string{"message": "Admin privilege required.", "error": "unauthorized"}
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, body).SetInternal(err)
}
