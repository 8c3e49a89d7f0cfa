package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/repository"
)

func newUsers(t *testing.T) *repository.UsersRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return repository.NewUsersRepository(db, logger.Get())
}

func TestIsAdminCommand(t *testing.T) {
	assert.True(t, isAdminCommand([]string{"disable-user", "a@b.co"}))
	assert.True(t, isAdminCommand([]string{"enable-user"}))
	assert.False(t, isAdminCommand(nil))
	assert.False(t, isAdminCommand([]string{"serve"}))
}

func TestSetAccountDisabled(t *testing.T) {
	users := newUsers(t)
	ctx := context.Background()

	u := &models.User{Email: "ann@example.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(ctx, u))

	var out bytes.Buffer
	require.NoError(t, setAccountDisabled(ctx, users, "Ann@Example.com", true, &out))
	assert.Contains(t, out.String(), "ann@example.com")
	assert.Contains(t, out.String(), "disabled")

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Disabled)

	out.Reset()
	require.NoError(t, setAccountDisabled(ctx, users, "ann@example.com", false, &out))
	assert.Contains(t, out.String(), "enabled")

	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Disabled)
}

func TestSetAccountDisabled_UnknownEmail(t *testing.T) {
	err := setAccountDisabled(context.Background(), newUsers(t), "nobody@example.com", true, &bytes.Buffer{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRunAdmin_RequiresEmail(t *testing.T) {
	err := runAdmin(context.Background(), nil, logger.Get(), []string{"disable-user"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}
