package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_platform/internal/db"
	"github.com/Skotchmaster/blog_platform/internal/db/dbtest"
	"github.com/Skotchmaster/blog_platform/internal/models"
)

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	_, err := db.Open(context.Background(), db.DriverSQLite, "")
	require.Error(t, err)

	_, err = db.Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
}

func TestIsUniqueViolation_Sqlite(t *testing.T) {
	t.Parallel()

	gdb := dbtest.New(t)
	ctx := context.Background()

	first := models.Account{Username: "alice", Email: "alice@x.com", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, gdb.WithContext(ctx).Create(&first).Error)

	dup := models.Account{Username: "alice2", Email: "alice@x.com", PasswordHash: "h", Role: models.RoleUser}
	err := gdb.WithContext(ctx).Create(&dup).Error
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))

	require.NoError(t, db.Ping(ctx, gdb))
}

func TestIsUniqueViolation_Kinds(t *testing.T) {
	t.Parallel()

	assert.False(t, db.IsUniqueViolation(nil))
	assert.False(t, db.IsUniqueViolation(errors.New("boom")))
	assert.True(t, db.IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, db.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, db.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
