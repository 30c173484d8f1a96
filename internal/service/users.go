package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/logging"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/mykafka"
	"github.com/Skotchmaster/blog_platform/internal/transport"
	"github.com/Skotchmaster/blog_platform/internal/util"
)

// UserService backs the admin account management endpoints.
type UserService struct {
	Store  *credentials.Store
	Events EventPublisher
}

func (s *UserService) List(ctx context.Context, page, size int) (util.Meta, []models.PublicAccount, error) {
	offset, limit := util.Calculate(page, size)

	total, accs, err := s.Store.List(ctx, offset, limit)
	if err != nil {
		return util.Meta{}, nil, err
	}
	out := make([]models.PublicAccount, len(accs))
	for i := range accs {
		out[i] = accs[i].Public()
	}
	return util.NewMeta(page, offset, limit, total), out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.PublicAccount, error) {
	acc, err := s.Store.Lookup(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	pub := acc.Public()
	return &pub, nil
}

// Update writes profile fields and the password together: a rejected
// email leaves the password untouched and the other way round.
func (s *UserService) Update(ctx context.Context, id string, req transport.UpdateUserRequest) (*models.PublicAccount, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "account_id", id)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.Store.Update(ctx, id, credentials.Changes{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrEmptyPassword):
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		case errors.Is(err, credentials.ErrDuplicateIdentity):
			l.Warn("update_user_error", "status", 409, "reason", "username or email taken")
		}
		return nil, notFound(err)
	}
	if req.Password != nil {
		l.Info("password rotated")
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, acc.ID, map[string]any{
		"type":   "user_updated",
		"userID": acc.ID,
	})
	pub := acc.Public()
	return &pub, nil
}

// Delete removes the account. Its posts stay and render without an author.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	logging.FromContext(ctx).Info("account deleted", "svc", "users.delete", "account_id", id)
	publish(ctx, s.Events, mykafka.TopicUserEvents, id, map[string]any{
		"type":   "user_deleted",
		"userID": id,
	})
	return nil
}

func notFound(err error) error {
	if errors.Is(err, credentials.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
