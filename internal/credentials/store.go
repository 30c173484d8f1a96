// Package credentials owns account records and their secrets: hashing on
// every write of a password and verification on login.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/blog_platform/internal/hash"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/repo"
)

var (
	ErrDuplicateIdentity = errors.New("username or email already registered")
	ErrNotFound          = errors.New("account not found")
	ErrEmptyPassword     = errors.New("password must not be empty")
	ErrPasswordMismatch  = errors.New("password does not match")
	ErrUnknownRole       = errors.New("unknown role")
)

type AccountRepo interface {
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)
	FindAccountsByIDs(ctx context.Context, ids []string) (map[string]models.Account, error)
	AccountExists(ctx context.Context, username, email string) (bool, error)
	InsertAccount(ctx context.Context, acc *models.Account) error
	UpdateAccountFields(ctx context.Context, id string, fields map[string]any) error
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context, offset, limit int) (int64, []models.Account, error)
}

type Store struct {
	repo AccountRepo
	cost int

	// compared against when the account does not exist, so a miss costs
	// the same as a wrong password
	dummyHash string
}

func NewStore(r AccountRepo, cost int) (*Store, error) {
	dummy, err := hash.HashPassword("dummy-password", cost)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	return &Store{repo: r, cost: cost, dummyHash: dummy}, nil
}

// NormalizeEmail is applied on every write and lookup so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes password and persists a new account with the given role.
// The raw password is not retained.
func (s *Store) Create(ctx context.Context, username, email, password, role string) (*models.Account, error) {
	if strings.TrimSpace(password) == "" {
		return nil, ErrEmptyPassword
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	exists, err := s.repo.AccountExists(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if exists {
		return nil, ErrDuplicateIdentity
	}

	pwHash, err := hash.HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.repo.InsertAccount(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return acc, nil
}

func (s *Store) Lookup(ctx context.Context, id string) (*models.Account, error) {
	acc, err := s.repo.FindAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acc, nil
}

func (s *Store) LookupEmail(ctx context.Context, email string) (*models.Account, error) {
	acc, err := s.repo.FindAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acc, nil
}

func (s *Store) LookupMany(ctx context.Context, ids []string) (map[string]models.Account, error) {
	return s.repo.FindAccountsByIDs(ctx, ids)
}

// Verify reports whether password matches the stored hash of account id.
// A missing account verifies as false.
func (s *Store) Verify(ctx context.Context, id, password string) (bool, error) {
	acc, err := s.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			hash.CheckPassword(s.dummyHash, password)
			return false, nil
		}
		return false, err
	}
	return hash.CheckPassword(acc.PasswordHash, password), nil
}

// VerifyEmail returns the account for email when password matches. It
// fails with ErrNotFound or ErrPasswordMismatch; both take one bcrypt
// comparison.
func (s *Store) VerifyEmail(ctx context.Context, email, password string) (*models.Account, error) {
	acc, err := s.LookupEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			hash.CheckPassword(s.dummyHash, password)
		}
		return nil, err
	}
	if !hash.CheckPassword(acc.PasswordHash, password) {
		return nil, ErrPasswordMismatch
	}
	return acc, nil
}

// Changes names the account fields to rewrite. Nil fields are left as is.
type Changes struct {
	Username *string
	Email    *string
	Password *string
}

// Update applies c in a single write that touches only the changed
// columns. The new password is hashed before anything is stored, so the
// update either lands whole or not at all.
func (s *Store) Update(ctx context.Context, id string, c Changes) (*models.Account, error) {
	if c.Password != nil && strings.TrimSpace(*c.Password) == "" {
		return nil, ErrEmptyPassword
	}
	acc, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, 3)
	if c.Username != nil {
		acc.Username = strings.TrimSpace(*c.Username)
		fields["username"] = acc.Username
	}
	if c.Email != nil {
		acc.Email = NormalizeEmail(*c.Email)
		fields["email"] = acc.Email
	}
	if c.Password != nil {
		pwHash, err := hash.HashPassword(*c.Password, s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		acc.PasswordHash = pwHash
		fields["password_hash"] = pwHash
	}

	if err := s.repo.UpdateAccountFields(ctx, id, fields); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateIdentity
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return acc, nil
}

// RotatePassword re-hashes and overwrites the password of account id.
// It does not require the new password to differ from the old one.
func (s *Store) RotatePassword(ctx context.Context, id, newPassword string) (*models.Account, error) {
	return s.Update(ctx, id, Changes{Password: &newPassword})
}

// UpdateProfile changes username and/or email.
func (s *Store) UpdateProfile(ctx context.Context, id string, username, email *string) (*models.Account, error) {
	return s.Update(ctx, id, Changes{Username: username, Email: email})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, offset, limit int) (int64, []models.Account, error) {
	total, items, err := s.repo.ListAccounts(ctx, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list accounts: %w", err)
	}
	return total, items, nil
}
