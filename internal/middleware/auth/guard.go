package auth

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stores_api/internal/logging"
	"github.com/Skotchmaster/stores_api/internal/tokens"
)

const (
	claimsKey    = "auth.claims"
	rejectionKey = "auth.rejection"
)

// ClaimsFrom returns the claims of the token that authorized the request.
func ClaimsFrom(c echo.Context) (*tokens.Claims, bool) {
	cl, ok := c.Get(claimsKey).(*tokens.Claims)
	return cl, ok && cl != nil
}

func (v *Verifier) Access() echo.MiddlewareFunc {
	return v.bearer(tokens.TypeAccess)
}

func (v *Verifier) Refresh() echo.MiddlewareFunc {
	return v.bearer(tokens.TypeRefresh)
}

func (v *Verifier) bearer(want tokens.Type) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (any, error) {
			cl, err := v.Verify(c.Request().Context(), raw, want)
			if err != nil {
				c.Set(rejectionKey, err)
				return nil, err
			}
			return cl, nil
		},
		SuccessHandler: func(c echo.Context) {
			if cl, ok := ClaimsFrom(c); ok {
				c.Set("user_id", cl.Subject)
				c.Set("is_admin", cl.IsAdmin)
				c.SetRequest(c.Request().WithContext(logging.With(c.Request().Context(), "user_id", cl.Subject)))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// extractor failures (no header, other scheme) reach here without a stored rejection
			if stored, ok := c.Get(rejectionKey).(error); ok {
				err = stored
			} else if !isRejection(err) {
				err = ErrTokenMissing
			}
			return reject(c, err)
		},
	})
}

// Fresh rejects non-fresh access tokens. It must run after Access.
func Fresh() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl, ok := ClaimsFrom(c)
			if !ok {
				return reject(c, ErrTokenMissing)
			}
			if !cl.Fresh {
				return reject(c, ErrFreshTokenRequired)
			}
			return next(c)
		}
	}
}

// Admin rejects tokens issued without the is_admin claim. It must run after Access.
func Admin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cl, ok := ClaimsFrom(c)
			if !ok {
				return reject(c, ErrTokenMissing)
			}
			if !cl.IsAdmin {
				return reject(c, ErrAdminRequired)
			}
			return next(c)
		}
	}
}

// Route policies. Each is an ordered guard list that stops at the first
// rejection, meant to be spread into an echo route: e.GET(path, h, v.AuthRequired()...).

func (v *Verifier) NoAuth() []echo.MiddlewareFunc { return nil }

func (v *Verifier) AuthRequired() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{v.Access()}
}

func (v *Verifier) FreshRequired() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{v.Access(), Fresh()}
}

func (v *Verifier) AdminRequired() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{v.Access(), Admin()}
}

func (v *Verifier) RefreshRequired() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{v.Refresh()}
}

func reject(c echo.Context, err error) error {
	he := HTTPError(err)
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_guard")
	if isRejection(err) {
		l.Warn("auth_rejected", "status", he.Code, "reason", Reason(err))
	} else {
		l.Error("auth_failed", "status", he.Code, "error", err)
	}
	return he
}

func isRejection(err error) bool {
	for _, target := range []error{
		ErrTokenMissing, ErrTokenInvalid, ErrTokenExpired, ErrTokenRevoked,
		ErrFreshTokenRequired, ErrRefreshTokenRequired, ErrAdminRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
