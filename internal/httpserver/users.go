package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/logging"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/internal/transport"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	page, size := pageParams(c)
	meta, users, err := h.Svc.List(ctx, page, size)
	if err != nil {
		return httpError(l, "list_users_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": users,
		"meta": meta,
	})
}

func (h *UsersHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get", "account_id", c.Param("id"))

	acc, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *UsersHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update", "account_id", c.Param("id"))

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_user_error", err)
	}

	acc, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return httpError(l, "update_user_error", err)
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *UsersHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete", "account_id", c.Param("id"))

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return httpError(l, "delete_user_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "user deleted",
	})
}
