package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_platform/internal/logging"
	authmw "github.com/Skotchmaster/blog_platform/internal/middleware/auth"
	"github.com/Skotchmaster/blog_platform/internal/service"
	"github.com/Skotchmaster/blog_platform/internal/transport"
	"github.com/Skotchmaster/blog_platform/internal/util"
)

type PostsHTTP struct {
	Svc *service.PostService
}

func pageParams(c echo.Context) (int, int) {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	return page, size
}

func (h *PostsHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "posts.list")

	page, size := pageParams(c)
	meta, posts, err := h.Svc.List(ctx, page, size)
	if err != nil {
		return httpError(l, "list_posts_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": posts,
		"meta": meta,
	})
}

func (h *PostsHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "posts.search")

	page, size := pageParams(c)
	meta, posts, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return httpError(l, "search_posts_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": posts,
		"meta": meta,
	})
}

func (h *PostsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "posts.get", "post_id", c.Param("id"))

	post, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return httpError(l, "get_post_error", err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostsHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "posts.create")

	var req transport.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_post_error", err)
	}

	post, err := h.Svc.Create(ctx, authmw.IdentityFrom(c), req)
	if err != nil {
		return httpError(l, "create_post_error", err)
	}

	l.Info("post_created", "post_id", post.ID)
	return c.JSON(http.StatusCreated, post)
}

func (h *PostsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "posts.update", "post_id", c.Param("id"))

	var req transport.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_post_error", err)
	}

	post, err := h.Svc.Update(ctx, authmw.IdentityFrom(c), c.Param("id"), req)
	if err != nil {
		return httpError(l, "update_post_error", err)
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostsHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "posts.delete", "post_id", c.Param("id"))

	if err := h.Svc.Delete(ctx, authmw.IdentityFrom(c), c.Param("id")); err != nil {
		return httpError(l, "delete_post_error", err)
	}

	l.Info("post_deleted")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "post deleted",
	})
}
