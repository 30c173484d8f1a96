package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

type seenRequest struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu     sync.Mutex
	seen   []seenRequest
	status int
	reply  string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.seen = append(f.seen, seenRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	status, reply := f.status, f.reply
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if reply == "" {
		reply = `{}`
	}
	_, _ = io.WriteString(w, reply)
}

func (f *fakeES) last() seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[len(f.seen)-1]
}

func newIndex(t *testing.T, f *fakeES) *Index {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &Index{ES: client, Name: "posts"}
}

func TestIndexPost(t *testing.T) {
	f := &fakeES{status: http.StatusCreated, reply: `{"result":"created"}`}
	idx := newIndex(t, f)

	p := &models.Post{ID: "p1", Title: "Go tips", Content: "body", Tags: []string{"go"}, Published: true, AuthorID: "a1"}
	require.NoError(t, idx.IndexPost(context.Background(), p))

	req := f.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/posts/_doc/p1", req.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Go tips", doc["title"])
	assert.Equal(t, "a1", doc["authorId"])
}

func TestIndexPost_DraftIsRemoved(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, reply: `{"result":"not_found"}`}
	idx := newIndex(t, f)

	require.NoError(t, idx.IndexPost(context.Background(), &models.Post{ID: "p1", Published: false}))

	req := f.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/posts/_doc/p1", req.Path)
}

func TestDeletePost_ServerError(t *testing.T) {
	f := &fakeES{status: http.StatusInternalServerError, reply: `{"error":"boom"}`}
	idx := newIndex(t, f)

	err := idx.DeletePost(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSearch(t *testing.T) {
	f := &fakeES{reply: `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_source": {"id": "p1", "title": "Go tips", "published": true, "authorId": "a1"}},
				{"_source": {"id": "p2", "title": "More Go", "published": true, "authorId": "a2"}}
			]
		}
	}`}
	idx := newIndex(t, f)

	total, posts, err := idx.Search(context.Background(), "go", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "a2", posts[1].AuthorID)

	req := f.last()
	assert.True(t, strings.HasSuffix(req.Path, "/posts/_search"))
	assert.Contains(t, req.Body, `"multi_match"`)
	assert.Contains(t, req.Body, `"published":true`)
}

func TestSearch_Error(t *testing.T) {
	f := &fakeES{status: http.StatusBadRequest, reply: `{"error":"bad query"}`}
	idx := newIndex(t, f)

	_, _, err := idx.Search(context.Background(), "go", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad query")
}
