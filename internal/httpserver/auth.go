package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stores_api/internal/logging"
	"github.com/Skotchmaster/stores_api/internal/middleware/auth"
	"github.com/Skotchmaster/stores_api/internal/service"
	"github.com/Skotchmaster/stores_api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.CredentialsRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("register_error", "status", he.Code, "error", he.Internal)
		return he
	}

	if _, err := h.Svc.Register(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, service.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "A user with that username already exists.")
		}
		return fail(l, "register_error", err, messages{})
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully."})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.CredentialsRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("login_error", "status", he.Code, "error", he.Internal)
		return he
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return fail(l, "login_failed", err, messages{})
	}

	l.Info("login_successful", "user_id", res.UserID)
	return c.JSON(http.StatusOK, transport.TokensResponse{
		AccessToken:  res.AccessToken.Raw,
		RefreshToken: res.RefreshToken.Raw,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	claims, _ := auth.ClaimsFrom(c)
	access, err := h.Svc.Refresh(ctx, claims)
	if err != nil {
		return fail(l, "refresh_failed", err, messages{})
	}

	return c.JSON(http.StatusOK, transport.TokensResponse{AccessToken: access.Raw})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	claims, _ := auth.ClaimsFrom(c)
	if err := h.Svc.Logout(ctx, claims); err != nil {
		return fail(l, "logout_failed", err, messages{})
	}

	l.Info("successful_logout", "user_id", claims.Subject)
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully logged out."})
}

func (h *AuthHTTP) LogoutRefresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout_refresh")

	claims, _ := auth.ClaimsFrom(c)
	if err := h.Svc.LogoutRefresh(ctx, claims); err != nil {
		return fail(l, "logout_refresh_failed", err, messages{})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Refresh token revoked."})
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_change_password")

	var req transport.ChangePasswordRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("change_password_error", "status", he.Code, "error", he.Internal)
		return he
	}

	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return auth.HTTPError(auth.ErrTokenMissing)
	}
	if err := h.Svc.ChangePassword(ctx, claims.Subject, req.OldPassword, req.NewPassword); err != nil {
		return fail(l, "change_password_failed", err, messages{notFound: "User not found."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated."})
}

func (h *AuthHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", err, messages{notFound: "User not found."})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return fail(l, "delete_user_failed", err, messages{notFound: "User not found."})
	}
	l.Info("user_deleted", "user_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted."})
}
