// Package remote holds the data-access functions the stores call. Every
// method issues exactly one call to the auth provider or the document store
// and returns its error unmodified.
package remote

import (
	"context"
	"fmt"

	"github.com/blockedby/interview-list/internal/backend"
	"github.com/blockedby/interview-list/internal/models"
)

// AuthProvider is the external authentication service.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*models.Credential, error)
	SignIn(ctx context.Context, email, password string) (*models.Credential, error)
	SignOut(ctx context.Context) error
	OnAuthStateChanged(fn func(*models.AuthUser)) (unsubscribe func())
}

// DocumentStore is the external document database addressed by paths.
type DocumentStore interface {
	Set(ctx context.Context, path string, data any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Get(ctx context.Context, path string, out any) error
	Delete(ctx context.Context, path string) error
	Query(ctx context.Context, collection string, q backend.Query, out any) error
}

// Service binds the data-access functions to a provider and a store.
type Service struct {
	auth AuthProvider
	docs DocumentStore
}

// New creates a Service.
func New(auth AuthProvider, docs DocumentStore) *Service {
	return &Service{auth: auth, docs: docs}
}

// InterviewsPath is the collection holding a user's interviews.
func InterviewsPath(userID string) string {
	return fmt.Sprintf("users/%s/interviews", userID)
}

// InterviewPath is the document path of one interview.
func InterviewPath(userID, interviewID string) string {
	return InterviewsPath(userID) + "/" + interviewID
}

// SignUp creates an account.
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.Credential, error) {
	return s.auth.SignUp(ctx, email, password)
}

// SignIn signs in with email and password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Credential, error) {
	return s.auth.SignIn(ctx, email, password)
}

// SignOut ends the session.
func (s *Service) SignOut(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

// OnAuthStateChanged subscribes to sign-in and sign-out events.
func (s *Service) OnAuthStateChanged(fn func(*models.AuthUser)) (unsubscribe func()) {
	return s.auth.OnAuthStateChanged(fn)
}

// CreateInterview writes iv under the user's collection, replacing any
// document with the same id. An empty userID does nothing.
func (s *Service) CreateInterview(ctx context.Context, userID string, iv *models.Interview) error {
	if userID == "" {
		return nil
	}
	return s.docs.Set(ctx, InterviewPath(userID, iv.ID), iv)
}

// ListInterviews returns the user's interviews, newest first.
func (s *Service) ListInterviews(ctx context.Context, userID string) ([]models.Interview, error) {
	var out []models.Interview
	q := backend.Query{OrderBy: "createdAt", Desc: true}
	if err := s.docs.Query(ctx, InterviewsPath(userID), q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Interview{}
	}
	return out, nil
}

// GetInterview reads one interview.
func (s *Service) GetInterview(ctx context.Context, userID, interviewID string) (*models.Interview, error) {
	var iv models.Interview
	if err := s.docs.Get(ctx, InterviewPath(userID, interviewID), &iv); err != nil {
		return nil, err
	}
	return &iv, nil
}

// UpdateInterview merges fields into an existing interview.
func (s *Service) UpdateInterview(ctx context.Context, userID, interviewID string, fields map[string]any) error {
	return s.docs.Update(ctx, InterviewPath(userID, interviewID), fields)
}

// DeleteInterview removes an interview. Deleting a missing one succeeds.
func (s *Service) DeleteInterview(ctx context.Context, userID, interviewID string) error {
	return s.docs.Delete(ctx, InterviewPath(userID, interviewID))
}
