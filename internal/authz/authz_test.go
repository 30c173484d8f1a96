package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	alice := &Identity{AccountID: "a-1", Role: models.RoleUser}
	admin := &Identity{AccountID: "adm", Role: models.RoleAdmin}

	tests := []struct {
		name  string
		id    *Identity
		owner string
		want  Decision
	}{
		{name: "owner", id: alice, owner: "a-1", want: Permit},
		{name: "other owner", id: alice, owner: "b-2", want: Deny},
		{name: "case differs", id: alice, owner: "A-1", want: Deny},
		{name: "admin is not owner", id: admin, owner: "a-1", want: Deny},
		{name: "nil identity", id: nil, owner: "a-1", want: Deny},
		{name: "empty owner", id: &Identity{}, owner: "", want: Deny},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Authorize(tt.id, tt.owner))
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	id := &Identity{AccountID: "a-1"}
	assert.NoError(t, Check(id, "a-1"))
	assert.ErrorIs(t, Check(id, "b-2"), ErrForbidden)
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "permit", Permit.String())
}

func TestIdentity_IsAdmin(t *testing.T) {
	t.Parallel()

	var nilID *Identity
	assert.False(t, nilID.IsAdmin())
	assert.False(t, (&Identity{Role: models.RoleUser}).IsAdmin())
	assert.True(t, (&Identity{Role: models.RoleAdmin}).IsAdmin())
}
