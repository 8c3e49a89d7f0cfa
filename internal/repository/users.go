package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
)

// UsersRepository stores accounts through GORM.
type UsersRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewUsersRepository creates a new users repository
func NewUsersRepository(db *gorm.DB, log *logger.Logger) *UsersRepository {
	return &UsersRepository{db: db, log: log.Component("users_repo")}
}

// Create inserts a user. Emails are stored lower-cased.
func (r *UsersRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}

	r.log.Info().Str("user_id", u.ID.String()).Msg("created user")
	return nil
}

// GetByEmail returns the user with email, or ErrNotFound.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// GetByID returns the user with id, or ErrNotFound.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SetDisabled enables or disables an account.
func (r *UsersRepository) SetDisabled(ctx context.Context, id uuid.UUID, disabled bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("disabled", disabled)
	if res.Error != nil {
		return fmt.Errorf("set user disabled: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	r.log.Info().Str("user_id", id.String()).Bool("disabled", disabled).Msg("updated user")
	return nil
}

// isUniqueViolation catches drivers that do not translate constraint errors.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
