// Package authz decides whether an authenticated identity may mutate a
// resource. The only rule is authorship.
package authz

import (
	"errors"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

var ErrForbidden = errors.New("forbidden")

// Identity is attached to a request once its bearer token and account
// have been resolved.
type Identity struct {
	AccountID string
	Role      string
	Account   models.PublicAccount
}

// IsAdmin reads the role carried by the token, which may lag behind the
// stored account until the token expires.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

type Decision bool

const (
	Deny   Decision = false
	Permit Decision = true
)

func (d Decision) String() string {
	if d == Permit {
		return "permit"
	}
	return "deny"
}

// Authorize permits only the owner. Admins get no override.
func Authorize(id *Identity, ownerID string) Decision {
	if id == nil || id.AccountID == "" || ownerID == "" {
		return Deny
	}
	if id.AccountID == ownerID {
		return Permit
	}
	return Deny
}

func Check(id *Identity, ownerID string) error {
	if Authorize(id, ownerID) == Deny {
		return ErrForbidden
	}
	return nil
}
