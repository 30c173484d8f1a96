package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Skotchmaster/blog_platform/internal/authz"
	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/logging"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/mykafka"
	"github.com/Skotchmaster/blog_platform/internal/repo"
	"github.com/Skotchmaster/blog_platform/internal/transport"
	"github.com/Skotchmaster/blog_platform/internal/util"
)

type PostRepo interface {
	FindPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPublishedPosts(ctx context.Context, offset, limit int) (int64, []models.Post, error)
	InsertPost(ctx context.Context, p *models.Post) error
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id string) error
}

// PostIndexer is satisfied by *search.Index.
type PostIndexer interface {
	IndexPost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Post, error)
}

type PostService struct {
	Repo     PostRepo
	Accounts *credentials.Store
	// optional
	Index  PostIndexer
	Events EventPublisher
}

func (s *PostService) List(ctx context.Context, page, size int) (util.Meta, []models.Post, error) {
	offset, limit := util.Calculate(page, size)

	total, posts, err := s.Repo.ListPublishedPosts(ctx, offset, limit)
	if err != nil {
		return util.Meta{}, nil, err
	}
	if err := s.attachAuthors(ctx, posts); err != nil {
		return util.Meta{}, nil, err
	}
	return util.NewMeta(page, offset, limit, total), posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	acc, err := s.Accounts.Lookup(ctx, p.AuthorID)
	switch {
	case err == nil:
		p.Author = &models.AuthorView{ID: acc.ID, Username: acc.Username, Email: acc.Email}
	case !errors.Is(err, credentials.ErrNotFound):
		return nil, err
	}
	return p, nil
}

func (s *PostService) Search(ctx context.Context, query string, page, size int) (util.Meta, []models.Post, error) {
	if s.Index == nil {
		return util.Meta{}, nil, ErrSearchUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return util.Meta{}, nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	offset, limit := util.Calculate(page, size)
	total, posts, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return util.Meta{}, nil, err
	}
	if err := s.attachAuthors(ctx, posts); err != nil {
		return util.Meta{}, nil, err
	}
	return util.NewMeta(page, offset, limit, total), posts, nil
}

// Create makes the caller the author. Posts are published unless the
// request says otherwise.
func (s *PostService) Create(ctx context.Context, id *authz.Identity, req transport.CreatePostRequest) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "posts.create")

	if id == nil {
		return nil, authz.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Tags:      req.Tags,
		ImageURL:  req.ImageURL,
		Published: true,
		AuthorID:  id.AccountID,
	}
	if req.Published != nil {
		p.Published = *req.Published
	}
	if p.ImageURL == "" {
		p.ImageURL = models.DefaultImageURL
	}

	if err := s.Repo.InsertPost(ctx, p); err != nil {
		l.Error("create_post_error", "status", 500, "error", err)
		return nil, err
	}
	p.Author = &models.AuthorView{ID: id.AccountID, Username: id.Account.Username}

	s.reindex(ctx, p)
	publish(ctx, s.Events, mykafka.TopicPostEvents, p.ID, map[string]any{
		"type":     "post_created",
		"postID":   p.ID,
		"authorID": p.AuthorID,
	})
	return p, nil
}

// Update applies the patch only when id owns the post.
func (s *PostService) Update(ctx context.Context, id *authz.Identity, postID string, req transport.UpdatePostRequest) (*models.Post, error) {
	l := logging.FromContext(ctx).With("svc", "posts.update", "post_id", postID)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.findOwned(ctx, l, id, postID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.Tags != nil {
		p.Tags = *req.Tags
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
		if p.ImageURL == "" {
			p.ImageURL = models.DefaultImageURL
		}
	}
	if req.Published != nil {
		p.Published = *req.Published
	}

	if err := s.Repo.UpdatePost(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		l.Error("update_post_error", "status", 500, "error", err)
		return nil, err
	}
	p.Author = &models.AuthorView{ID: id.AccountID, Username: id.Account.Username}

	s.reindex(ctx, p)
	publish(ctx, s.Events, mykafka.TopicPostEvents, p.ID, map[string]any{
		"type":     "post_updated",
		"postID":   p.ID,
		"authorID": p.AuthorID,
	})
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id *authz.Identity, postID string) error {
	l := logging.FromContext(ctx).With("svc", "posts.delete", "post_id", postID)

	p, err := s.findOwned(ctx, l, id, postID)
	if err != nil {
		return err
	}

	if err := s.Repo.DeletePost(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		l.Error("delete_post_error", "status", 500, "error", err)
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeletePost(ctx, p.ID); err != nil {
			l.Error("search_delete_error", "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicPostEvents, p.ID, map[string]any{
		"type":     "post_deleted",
		"postID":   p.ID,
		"authorID": p.AuthorID,
	})
	return nil
}

func (s *PostService) find(ctx context.Context, postID string) (*models.Post, error) {
	p, err := s.Repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) findOwned(ctx context.Context, l *slog.Logger, id *authz.Identity, postID string) (*models.Post, error) {
	p, err := s.find(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(id, p.AuthorID); err != nil {
		accountID := ""
		if id != nil {
			accountID = id.AccountID
		}
		l.Warn("ownership_denied", "status", 403, "account_id", accountID, "author_id", p.AuthorID)
		return nil, err
	}
	return p, nil
}

// attachAuthors fills Author from one batched account lookup. Posts whose
// author was deleted keep a nil Author.
func (s *PostService) attachAuthors(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}

	accs, err := s.Accounts.LookupMany(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if acc, ok := accs[posts[i].AuthorID]; ok {
			posts[i].Author = &models.AuthorView{ID: acc.ID, Username: acc.Username}
		}
	}
	return nil
}

func (s *PostService) reindex(ctx context.Context, p *models.Post) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexPost(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "post_id", p.ID, "error", err)
	}
}
