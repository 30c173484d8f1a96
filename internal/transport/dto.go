// Package transport holds the request shapes accepted by the HTTP API.
// Every body is bound into one of these and validated before it reaches a
// service.
package transport

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/blog_platform/internal/hash"
)

var ErrValidation = errors.New("validation failed")

const (
	MaxUsernameLen = 50
	MaxTitleLen    = 200
	MaxExcerptLen  = 200
	MaxTags        = 20
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RegisterRequest has no role field; registration always assigns one.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" || r.Password == "" {
		return invalid("email and password are required")
	}
	if len(r.Password) > hash.MaxPasswordBytes {
		return invalid("password must be at most %d bytes", hash.MaxPasswordBytes)
	}
	return nil
}

type CreatePostRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt"`
	Tags      []string `json:"tags"`
	ImageURL  string   `json:"imageUrl"`
	Published *bool    `json:"published"`
}

func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	if r.Title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(r.Title) > MaxTitleLen {
		return invalid("title must be at most %d characters", MaxTitleLen)
	}
	if strings.TrimSpace(r.Content) == "" {
		return invalid("content is required")
	}
	if utf8.RuneCountInString(r.Excerpt) > MaxExcerptLen {
		return invalid("excerpt must be at most %d characters", MaxExcerptLen)
	}
	tags, err := cleanTags(r.Tags)
	if err != nil {
		return err
	}
	r.Tags = tags
	return nil
}

// UpdatePostRequest is a patch: nil fields are left unchanged. The author
// of a post cannot be changed.
type UpdatePostRequest struct {
	Title     *string   `json:"title"`
	Content   *string   `json:"content"`
	Excerpt   *string   `json:"excerpt"`
	Tags      *[]string `json:"tags"`
	ImageURL  *string   `json:"imageUrl"`
	Published *bool     `json:"published"`
}

func (r *UpdatePostRequest) Validate() error {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return invalid("title must not be empty")
		}
		if utf8.RuneCountInString(t) > MaxTitleLen {
			return invalid("title must be at most %d characters", MaxTitleLen)
		}
		r.Title = &t
	}
	if r.Content != nil && strings.TrimSpace(*r.Content) == "" {
		return invalid("content must not be empty")
	}
	if r.Excerpt != nil && utf8.RuneCountInString(*r.Excerpt) > MaxExcerptLen {
		return invalid("excerpt must be at most %d characters", MaxExcerptLen)
	}
	if r.Tags != nil {
		tags, err := cleanTags(*r.Tags)
		if err != nil {
			return err
		}
		r.Tags = &tags
	}
	if r.ImageURL != nil {
		u := strings.TrimSpace(*r.ImageURL)
		r.ImageURL = &u
	}
	return nil
}

// UpdateUserRequest is the admin patch for an account. Password goes
// through rotation; role is not editable here.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Username == nil && r.Email == nil && r.Password == nil {
		return invalid("nothing to update")
	}
	if r.Username != nil {
		u := strings.TrimSpace(*r.Username)
		if err := validateUsername(u); err != nil {
			return err
		}
		r.Username = &u
	}
	if r.Email != nil {
		e := strings.TrimSpace(*r.Email)
		if err := validateEmail(e); err != nil {
			return err
		}
		r.Email = &e
	}
	if r.Password != nil {
		if err := validatePassword(*r.Password); err != nil {
			return err
		}
	}
	return nil
}

func validateUsername(u string) error {
	if u == "" {
		return invalid("username is required")
	}
	if utf8.RuneCountInString(u) > MaxUsernameLen {
		return invalid("username must be at most %d characters", MaxUsernameLen)
	}
	return nil
}

func validateEmail(e string) error {
	if e == "" {
		return invalid("email is required")
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return invalid("email is not a valid address")
	}
	return nil
}

func validatePassword(p string) error {
	if strings.TrimSpace(p) == "" {
		return invalid("password is required")
	}
	if len(p) > hash.MaxPasswordBytes {
		return invalid("password must be at most %d bytes", hash.MaxPasswordBytes)
	}
	return nil
}

func cleanTags(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) > MaxTags {
		return nil, invalid("at most %d tags are allowed", MaxTags)
	}
	return out, nil
}
