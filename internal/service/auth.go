package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/blog_platform/internal/config"
	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/logging"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/mykafka"
	"github.com/Skotchmaster/blog_platform/internal/tokens"
	"github.com/Skotchmaster/blog_platform/internal/transport"
)

type AuthService struct {
	Store  *credentials.Store
	Tokens *tokens.Service
	Events EventPublisher
}

type LoginResult struct {
	Token     string               `json:"token"`
	ExpiresIn int64                `json:"expiresIn"`
	Account   models.PublicAccount `json:"user"`
}

// Register always creates a plain user. Admin accounts only come from
// EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.PublicAccount, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := req.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.Store.Create(ctx, req.Username, req.Email, req.Password, models.RoleUser)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrDuplicateIdentity):
			l.Warn("register_error", "status", 409, "reason", "user already exists")
			return nil, err
		case errors.Is(err, credentials.ErrEmptyPassword):
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("registered", "account_id", acc.ID)
	publish(ctx, s.Events, mykafka.TopicUserEvents, acc.ID, map[string]any{
		"type":   "user_registered",
		"userID": acc.ID,
	})

	pub := acc.Public()
	return &pub, nil
}

// Login does not reveal whether the email exists: both an unknown email
// and a wrong password yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := req.Validate(); err != nil {
		return nil, err
	}

	acc, err := s.Store.VerifyEmail(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) || errors.Is(err, credentials.ErrPasswordMismatch) {
			l.Warn("login failed", "status", 401, "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(acc.ID, acc.Role)
	if err != nil {
		l.Error("login failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "account_id", acc.ID)
	publish(ctx, s.Events, mykafka.TopicUserEvents, acc.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": acc.ID,
	})

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.Tokens.TTL().Seconds()),
		Account:   acc.Public(),
	}, nil
}

// EnsureAdmin creates the configured admin account if its email is not
// taken yet. An empty seed is a no-op.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed config.AdminSeed) error {
	if seed.Email == "" {
		return nil
	}
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")

	existing, err := s.Store.LookupEmail(ctx, seed.Email)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			l.Warn("admin seed email belongs to a non-admin account", "account_id", existing.ID)
		}
		return nil
	case !errors.Is(err, credentials.ErrNotFound):
		return err
	}

	acc, err := s.Store.Create(ctx, seed.Username, seed.Email, seed.Password, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	l.Info("admin account created", "account_id", acc.ID)
	return nil
}
