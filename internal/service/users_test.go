package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/transport"
)

func TestUsers_ListGetUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@x.com", "secret1")
	f.register(t, "bob", "bob@x.com", "secret1")

	meta, accs, err := f.users.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta.Total)
	assert.Len(t, accs, 2)

	got, err := f.users.Get(ctx, alice.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = f.users.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.users.Update(ctx, alice.AccountID, transport.UpdateUserRequest{Email: ptr("bob@x.com")})
	assert.ErrorIs(t, err, credentials.ErrDuplicateIdentity)

	// rejected email must not leave a rotated password behind
	_, err = f.users.Update(ctx, alice.AccountID, transport.UpdateUserRequest{
		Email: ptr("bob@x.com"), Password: ptr("secret9"),
	})
	assert.ErrorIs(t, err, credentials.ErrDuplicateIdentity)
	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "alice@x.com", Password: "secret9"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.users.Update(ctx, alice.AccountID, transport.UpdateUserRequest{Password: ptr("  ")})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := f.users.Update(ctx, alice.AccountID, transport.UpdateUserRequest{
		Username: ptr("alice_w"), Password: ptr("secret2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_w", updated.Username)

	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "alice@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "alice@x.com", Password: "secret2"})
	require.NoError(t, err)

	_, err = f.users.Update(ctx, "missing", transport.UpdateUserRequest{Username: ptr("ghost")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.users.Delete(ctx, alice.AccountID))
	assert.ErrorIs(t, f.users.Delete(ctx, alice.AccountID), ErrNotFound)
}

func TestUsers_DeletedAuthorPostsRemain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@x.com", "secret1")
	post := f.createPost(t, alice, "orphan")

	require.NoError(t, f.users.Delete(ctx, alice.AccountID))

	got, err := f.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Author)

	_, posts, err := f.posts.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0].Author)
}
