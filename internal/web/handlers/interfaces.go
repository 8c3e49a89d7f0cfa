package handlers

import (
	"context"

	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/repository"
)

// AuthService signs users up and in.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.Credential, error)
	SignIn(ctx context.Context, email, password string) (*models.Credential, error)
}

// DocumentRepository defines interface for interview document access
type DocumentRepository interface {
	Set(ctx context.Context, userID, id string, data map[string]any) error
	Merge(ctx context.Context, userID, id string, patch map[string]any) error
	Get(ctx context.Context, userID, id string) (*repository.Document, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID, orderBy string, desc bool) ([]repository.Document, error)
	CountByStatus(ctx context.Context, userID string) (map[string]int, error)
}
