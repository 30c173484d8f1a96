package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/blog_platform/internal/authz"
	"github.com/Skotchmaster/blog_platform/internal/credentials"
	"github.com/Skotchmaster/blog_platform/internal/db/dbtest"
	"github.com/Skotchmaster/blog_platform/internal/models"
	"github.com/Skotchmaster/blog_platform/internal/repo"
	"github.com/Skotchmaster/blog_platform/internal/tokens"
	"github.com/Skotchmaster/blog_platform/internal/transport"
)

type recordedEvent struct {
	Topic string
	Key   string
	Type  string
}

type fakeEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakeEvents) PublishEvent(_ context.Context, topic, key string, event any) error {
	m, _ := event.(map[string]any)
	typ, _ := m["type"].(string)
	f.mu.Lock()
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Type: typ})
	f.mu.Unlock()
	return nil
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	repo   *repo.GormRepo
	store  *credentials.Store
	tokens *tokens.Service
	events *fakeEvents
	auth   *AuthService
	posts  *PostService
	users  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := &repo.GormRepo{DB: dbtest.New(t)}
	store, err := credentials.NewStore(r, bcrypt.MinCost)
	require.NoError(t, err)
	ts, err := tokens.NewService([]byte("svc-secret"))
	require.NoError(t, err)
	ev := &fakeEvents{}

	return &fixture{
		repo:   r,
		store:  store,
		tokens: ts,
		events: ev,
		auth:   &AuthService{Store: store, Tokens: ts, Events: ev},
		posts:  &PostService{Repo: r, Accounts: store, Events: ev},
		users:  &UserService{Store: store, Events: ev},
	}
}

func (f *fixture) register(t *testing.T, username, email, password string) *authz.Identity {
	t.Helper()
	acc, err := f.auth.Register(context.Background(), transport.RegisterRequest{
		Username: username, Email: email, Password: password,
	})
	require.NoError(t, err)
	return &authz.Identity{AccountID: acc.ID, Role: acc.Role, Account: *acc}
}

func (f *fixture) createPost(t *testing.T, author *authz.Identity, title string) *models.Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), author, transport.CreatePostRequest{Title: title, Content: "content of " + title})
	require.NoError(t, err)
	return p
}
