package repo

import (
	"context"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

var postColumns = []string{"title", "content", "excerpt", "tags", "image_url", "published"}

func (r *GormRepo) FindPostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormRepo) ListPublishedPosts(ctx context.Context, offset, limit int) (int64, []models.Post, error) {
	var total int64
	q := r.DB.WithContext(ctx).Model(&models.Post{}).Where("published = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, translate(err)
	}

	items := make([]models.Post, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, translate(err)
	}
	return total, items, nil
}

func (r *GormRepo) InsertPost(ctx context.Context, p *models.Post) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

// UpdatePost writes the editable columns only; author_id is never touched.
func (r *GormRepo) UpdatePost(ctx context.Context, p *models.Post) error {
	res := r.DB.WithContext(ctx).Model(p).Select(postColumns).Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeletePost(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
