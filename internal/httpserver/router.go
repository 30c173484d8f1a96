package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/blog_platform/internal/middleware/auth"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	PostsHandler *PostsHTTP
	UsersHandler *UsersHTTP
	Resolver     *authmw.Resolver
	// Ready reports whether storage is reachable; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").WithInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	requireLogin := d.Resolver.RequireLogin

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/me", d.AuthHandler.Me, requireLogin)

	// per-route middleware keeps unknown paths under /api/blogs a 404
	blogs := e.Group("/api/blogs")
	blogs.GET("", d.PostsHandler.List)
	blogs.GET("/search", d.PostsHandler.Search)
	blogs.GET("/:id", d.PostsHandler.Get)
	blogs.POST("", d.PostsHandler.Create, requireLogin)
	blogs.PUT("/:id", d.PostsHandler.Update, requireLogin)
	blogs.DELETE("/:id", d.PostsHandler.Delete, requireLogin)

	users := e.Group("/api/users", requireLogin, d.Resolver.RequireAdmin)
	users.GET("", d.UsersHandler.List)
	users.GET("/:id", d.UsersHandler.Get)
	users.PUT("/:id", d.UsersHandler.Update)
	users.DELETE("/:id", d.UsersHandler.Delete)
}
