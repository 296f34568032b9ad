package httpserver

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/stores_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/stores_api/internal/middleware/logging"
)

type Deps struct {
	Auth     *AuthHTTP
	Catalog  *CatalogHTTP
	Health   *HealthHTTP
	Verifier *auth.Verifier

	// ProtectUserDelete puts DELETE /user/:id behind the admin policy.
	ProtectUserDelete bool
}

// New returns an echo instance with the validator and the common middleware
// chain installed.
func New(log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(log))
	e.Use(middleware.Recover())
	return e
}

func Register(e *echo.Echo, d *Deps) {
	v := d.Verifier

	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)

	e.POST("/register", d.Auth.Register, v.NoAuth()...)
	e.POST("/login", d.Auth.Login, v.NoAuth()...)
	e.POST("/refresh", d.Auth.Refresh, v.RefreshRequired()...)
	e.POST("/logout", d.Auth.Logout, v.AuthRequired()...)
	e.POST("/logout/refresh", d.Auth.LogoutRefresh, v.RefreshRequired()...)

	e.PUT("/user/password", d.Auth.ChangePassword, v.FreshRequired()...)
	e.GET("/user/:id", d.Auth.GetUser, v.NoAuth()...)
	if d.ProtectUserDelete {
		e.DELETE("/user/:id", d.Auth.DeleteUser, v.AdminRequired()...)
	} else {
		e.DELETE("/user/:id", d.Auth.DeleteUser, v.NoAuth()...)
	}

	e.GET("/store", d.Catalog.ListStores, v.AuthRequired()...)
	e.POST("/store", d.Catalog.CreateStore, v.AuthRequired()...)
	e.GET("/store/:id", d.Catalog.GetStore, v.AuthRequired()...)
	e.DELETE("/store/:id", d.Catalog.DeleteStore, v.AdminRequired()...)

	e.GET("/item", d.Catalog.ListItems, v.AuthRequired()...)
	e.POST("/item", d.Catalog.CreateItem, v.AuthRequired()...)
	e.GET("/item/search", d.Catalog.SearchItems, v.AuthRequired()...)
	e.GET("/item/:id", d.Catalog.GetItem, v.AuthRequired()...)
	e.PUT("/item/:id", d.Catalog.UpsertItem, v.AuthRequired()...)
	e.DELETE("/item/:id", d.Catalog.DeleteItem, v.AdminRequired()...)

	e.GET("/store/:id/tag", d.Catalog.ListStoreTags, v.AuthRequired()...)
	e.POST("/store/:id/tag", d.Catalog.CreateStoreTag, v.AuthRequired()...)
	e.GET("/tag/:id", d.Catalog.GetTag, v.AuthRequired()...)
	e.DELETE("/tag/:id", d.Catalog.DeleteTag, v.AdminRequired()...)

	e.POST("/item/:item_id/tag/:tag_id", d.Catalog.LinkTag, v.AuthRequired()...)
	e.DELETE("/item/:item_id/tag/:tag_id", d.Catalog.UnlinkTag, v.AdminRequired()...)
}
