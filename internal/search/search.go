// Package search keeps published posts in an elasticsearch index and runs
// full-text queries over them.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

type Index struct {
	ES   *elasticsearch.Client
	Name string
}

type postDoc struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags"`
	ImageURL  string    `json:"imageUrl"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDoc(p *models.Post) postDoc {
	return postDoc{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Excerpt:   p.Excerpt,
		Tags:      p.Tags,
		ImageURL:  p.ImageURL,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d postDoc) post() models.Post {
	return models.Post{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Excerpt:   d.Excerpt,
		Tags:      d.Tags,
		ImageURL:  d.ImageURL,
		Published: d.Published,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// IndexPost upserts a published post. Unpublished posts are removed so
// drafts never show up in results.
func (i *Index) IndexPost(ctx context.Context, p *models.Post) error {
	if !p.Published {
		return i.DeletePost(ctx, p.ID)
	}

	body, err := json.Marshal(toDoc(p))
	if err != nil {
		return fmt.Errorf("search: encode post: %w", err)
	}

	res, err := i.ES.Index(
		i.Name,
		bytes.NewReader(body),
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(p.ID),
	)
	if err != nil {
		return fmt.Errorf("search: index post: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index post", res.StatusCode, res.Body)
	}
	return nil
}

// DeletePost treats a missing document as already deleted.
func (i *Index) DeletePost(ctx context.Context, id string) error {
	res, err := i.ES.Delete(i.Name, id, i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete post: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete post", res.StatusCode, res.Body)
	}
	return nil
}

func (i *Index) Search(ctx context.Context, query string, from, size int) (int64, []models.Post, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "content", "tags"},
						"fuzziness": "AUTO",
					},
				},
				"filter": []any{
					map[string]any{"term": map[string]any{"published": true}},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Name),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("query", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source postDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	posts := make([]models.Post, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		posts[n] = hit.Source.post()
	}
	return r.Hits.Total.Value, posts, nil
}

func responseError(op string, status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("search: %s: status %d: %s", op, status, bytes.TrimSpace(msg))
}
