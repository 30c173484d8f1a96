package transport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  RegisterRequest
		ok   bool
	}{
		{name: "valid", req: RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"}, ok: true},
		{name: "trimmed", req: RegisterRequest{Username: " alice ", Email: " alice@x.com ", Password: "secret1"}, ok: true},
		{name: "no username", req: RegisterRequest{Email: "alice@x.com", Password: "secret1"}},
		{name: "no email", req: RegisterRequest{Username: "alice", Password: "secret1"}},
		{name: "bad email", req: RegisterRequest{Username: "alice", Email: "alice", Password: "secret1"}},
		{name: "display name email", req: RegisterRequest{Username: "alice", Email: "Alice <alice@x.com>", Password: "secret1"}},
		{name: "blank password", req: RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "   "}},
		{name: "long password", req: RegisterRequest{Username: "alice", Email: "alice@x.com", Password: strings.Repeat("p", 73)}},
		{name: "long username", req: RegisterRequest{Username: strings.Repeat("u", 51), Email: "alice@x.com", Password: "secret1"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "alice", tt.req.Username)
				assert.Equal(t, "alice@x.com", tt.req.Email)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&LoginRequest{Email: "a@x.com", Password: "p"}).Validate())
	assert.ErrorIs(t, (&LoginRequest{Email: "a@x.com"}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&LoginRequest{Password: "p"}).Validate(), ErrValidation)

	long := strings.Repeat("a", 72)
	assert.NoError(t, (&LoginRequest{Email: "a@x.com", Password: long}).Validate())
	assert.ErrorIs(t, (&LoginRequest{Email: "a@x.com", Password: long + "x"}).Validate(), ErrValidation)
}

func TestCreatePostRequest_Validate(t *testing.T) {
	t.Parallel()

	req := CreatePostRequest{Title: "  Hello ", Content: "body", Tags: []string{" go ", "", "  "}}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Hello", req.Title)
	assert.Equal(t, []string{"go"}, req.Tags)

	assert.ErrorIs(t, (&CreatePostRequest{Content: "body"}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&CreatePostRequest{Title: "t", Content: " "}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&CreatePostRequest{Title: "t", Content: "c", Excerpt: strings.Repeat("e", 201)}).Validate(), ErrValidation)
	assert.NoError(t, (&CreatePostRequest{Title: "t", Content: "c", Excerpt: strings.Repeat("é", 200)}).Validate())
}

func TestUpdatePostRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&UpdatePostRequest{}).Validate())

	req := UpdatePostRequest{Title: ptr(" New "), Tags: &[]string{" a ", ""}}
	require.NoError(t, req.Validate())
	assert.Equal(t, "New", *req.Title)
	assert.Equal(t, []string{"a"}, *req.Tags)

	assert.ErrorIs(t, (&UpdatePostRequest{Title: ptr(" ")}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&UpdatePostRequest{Content: ptr("")}).Validate(), ErrValidation)
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, (&UpdateUserRequest{}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&UpdateUserRequest{Password: ptr(" ")}).Validate(), ErrValidation)
	assert.ErrorIs(t, (&UpdateUserRequest{Email: ptr("nope")}).Validate(), ErrValidation)

	req := UpdateUserRequest{Email: ptr(" bob@x.com ")}
	require.NoError(t, req.Validate())
	assert.Equal(t, "bob@x.com", *req.Email)
}
