package repo

import (
	"context"
	"fmt"
	"slices"

	"github.com/Skotchmaster/blog_platform/internal/models"
)

var accountColumns = []string{"username", "email", "password_hash", "role"}

func (r *GormRepo) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (r *GormRepo) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&acc).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (r *GormRepo) FindAccountsByIDs(ctx context.Context, ids []string) (map[string]models.Account, error) {
	out := make(map[string]models.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var accs []models.Account
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&accs).Error; err != nil {
		return nil, translate(err)
	}
	for _, a := range accs {
		out[a.ID] = a
	}
	return out, nil
}

// AccountExists is a cheap pre-check; the unique indexes remain the
// authority on conflicts.
func (r *GormRepo) AccountExists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *GormRepo) InsertAccount(ctx context.Context, acc *models.Account) error {
	return translate(r.DB.WithContext(ctx).Create(acc).Error)
}

// UpdateAccountFields writes only the given columns of account id, in one
// statement. Columns outside accountColumns are refused.
func (r *GormRepo) UpdateAccountFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	for col := range fields {
		if !slices.Contains(accountColumns, col) {
			return fmt.Errorf("repo: account column %q is not writable", col)
		}
	}

	res := r.DB.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteAccount(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Account{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListAccounts(ctx context.Context, offset, limit int) (int64, []models.Account, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).Count(&total).Error; err != nil {
		return 0, nil, translate(err)
	}

	items := make([]models.Account, 0, limit)
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, translate(err)
	}
	return total, items, nil
}
