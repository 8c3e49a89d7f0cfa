package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/interview-list/internal/auth"
	"github.com/blockedby/interview-list/internal/events"
	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/repository"
	"github.com/blockedby/interview-list/internal/web"
)

// MockDocumentRepository is a mock for DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Set(ctx context.Context, userID, id string, data map[string]any) error {
	return m.Called(ctx, userID, id, data).Error(0)
}

func (m *MockDocumentRepository) Merge(ctx context.Context, userID, id string, patch map[string]any) error {
	return m.Called(ctx, userID, id, patch).Error(0)
}

func (m *MockDocumentRepository) Get(ctx context.Context, userID, id string) (*repository.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockDocumentRepository) List(ctx context.Context, userID, orderBy string, desc bool) ([]repository.Document, error) {
	args := m.Called(ctx, userID, orderBy, desc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountByStatus(ctx context.Context, userID string) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockAuthService is a mock for AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (*models.Credential, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*models.Credential, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

type tokenAuth map[string]string

func (a tokenAuth) Authenticate(_ context.Context, token string) (*models.AuthUser, error) {
	uid, ok := a[token]
	if !ok {
		return nil, &auth.Error{Status: http.StatusUnauthorized, Code: auth.CodeUnauthenticated, Message: "bad token"}
	}
	return &models.AuthUser{ID: uid, Email: uid + "@example.com"}, nil
}

type recordingPublisher struct {
	changes []events.Change
}

func (p *recordingPublisher) PublishChange(_ context.Context, c events.Change) error {
	p.changes = append(p.changes, c)
	return nil
}

type testEnv struct {
	router http.Handler
	repo   *MockDocumentRepository
	svc    *MockAuthService
	pub    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repo: new(MockDocumentRepository),
		svc:  new(MockAuthService),
		pub:  &recordingPublisher{},
	}

	srv := web.NewServer(&web.Config{}, tokenAuth{"tok-u1": "u1", "tok-u2": "u2"}, nil)
	srv.RegisterAuthHandler(NewAuthHandler(env.svc, logger.Get()), web.NewRateLimiter(100, 100))
	srv.RegisterDocumentsHandler(NewDocumentsHandler(env.repo, env.pub, logger.Get()))
	env.router = srv
	return env
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) web.ErrorBody {
	t.Helper()
	var body web.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthAPI_SignIn(t *testing.T) {
	env := newTestEnv(t)
	cred := &models.Credential{UserID: "u1", Email: "a@b.co", Token: "tok"}
	env.svc.On("SignIn", mock.Anything, "a@b.co", "Secret1!").Return(cred, nil)

	rec := env.do(http.MethodPost, "/api/v1/auth/signin", "", `{"email":"a@b.co","password":"Secret1!"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.Credential
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, *cred, got)
}

func TestAuthAPI_CodedErrors(t *testing.T) {
	env := newTestEnv(t)
	env.svc.On("SignIn", mock.Anything, "a@b.co", "bad").
		Return(nil, &auth.Error{Status: http.StatusUnauthorized, Code: auth.CodeWrongPassword, Message: "password does not match"})
	env.svc.On("SignUp", mock.Anything, "a@b.co", "Secret1!").
		Return(nil, &auth.Error{Status: http.StatusConflict, Code: auth.CodeEmailAlreadyInUse, Message: "taken"})

	rec := env.do(http.MethodPost, "/api/v1/auth/signin", "", `{"email":"a@b.co","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.CodeWrongPassword, decodeError(t, rec).Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/signup", "", `{"email":"a@b.co","password":"Secret1!"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, auth.CodeEmailAlreadyInUse, decodeError(t, rec).Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/signup", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, web.CodeInvalidArgument, decodeError(t, rec).Code)
}

func TestAuthAPI_Me(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/auth/me", "tok-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.AuthUser
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "u1", user.ID)

	rec = env.do(http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, web.CodeUnauthenticated, decodeError(t, rec).Code)
}

func TestAuthAPI_RateLimited(t *testing.T) {
	env := &testEnv{svc: new(MockAuthService)}
	env.svc.On("SignIn", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &auth.Error{Status: http.StatusNotFound, Code: auth.CodeUserNotFound, Message: "nope"})

	srv := web.NewServer(&web.Config{}, tokenAuth{}, nil)
	srv.RegisterAuthHandler(NewAuthHandler(env.svc, logger.Get()), web.NewRateLimiter(0.001, 2))
	env.router = srv

	body := `{"email":"a@b.co","password":"x"}`
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/v1/auth/signin", "", body).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/v1/auth/signin", "", body).Code)

	rec := env.do(http.MethodPost, "/api/v1/auth/signin", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, web.CodeTooManyRequests, decodeError(t, rec).Code)
}

func TestDocumentsAPI_Ownership(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/users/u1/interviews", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users/u1/interviews", "tok-u2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, web.CodePermissionDenied, decodeError(t, rec).Code)

	rec = env.do(http.MethodDelete, "/api/v1/users/u1/interviews/x", "tok-u2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	env.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentsAPI_List(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("List", mock.Anything, "u1", "createdAt", true).Return([]repository.Document{
		{ID: "t3", Data: map[string]any{"id": "t3"}},
		{ID: "t2", Data: map[string]any{"id": "t2"}},
	}, nil)

	rec := env.do(http.MethodGet, "/api/v1/users/u1/interviews?order_by=createdAt&direction=desc", "tok-u1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "t3", out[0]["id"])
}

func TestDocumentsAPI_ListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("List", mock.Anything, "u1", "", false).Return([]repository.Document{}, nil)

	rec := env.do(http.MethodGet, "/api/v1/users/u1/interviews", "tok-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestDocumentsAPI_InvalidOrder(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("List", mock.Anything, "u1", "bogus", false).Return(nil, repository.ErrInvalidOrder)

	rec := env.do(http.MethodGet, "/api/v1/users/u1/interviews?order_by=bogus", "tok-u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentsAPI_SetUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("Set", mock.Anything, "u1", "i1", map[string]any{"companyName": "Acme"}).Return(nil).Once()
	env.repo.On("Merge", mock.Anything, "u1", "i1", map[string]any{"status": "offer"}).Return(nil).Once()
	env.repo.On("Delete", mock.Anything, "u1", "i1").Return(nil).Twice()

	rec := env.do(http.MethodPut, "/api/v1/users/u1/interviews/i1", "tok-u1", `{"companyName":"Acme"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodPatch, "/api/v1/users/u1/interviews/i1", "tok-u1", `{"status":"offer"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// deleting twice is fine
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/v1/users/u1/interviews/i1", "tok-u1", "").Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/v1/users/u1/interviews/i1", "tok-u1", "").Code)

	env.repo.AssertExpectations(t)

	require.Len(t, env.pub.changes, 4)
	assert.Equal(t, events.OpSet, env.pub.changes[0].Op)
	assert.Equal(t, events.OpUpdate, env.pub.changes[1].Op)
	assert.Equal(t, events.OpDelete, env.pub.changes[2].Op)
	assert.Equal(t, "u1", env.pub.changes[0].UserID)
	assert.Equal(t, "i1", env.pub.changes[0].InterviewID)
}

func TestDocumentsAPI_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("Get", mock.Anything, "u1", "missing").Return(nil, repository.ErrNotFound)
	env.repo.On("Merge", mock.Anything, "u1", "missing", mock.Anything).Return(repository.ErrNotFound)

	rec := env.do(http.MethodGet, "/api/v1/users/u1/interviews/missing", "tok-u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, web.CodeNotFound, decodeError(t, rec).Code)

	rec = env.do(http.MethodPatch, "/api/v1/users/u1/interviews/missing", "tok-u1", `{"status":"offer"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, env.pub.changes)
}

func TestDocumentsAPI_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.repo.On("CountByStatus", mock.Anything, "u1").Return(map[string]int{"offer": 2, "pending": 1}, nil)

	rec := env.do(http.MethodGet, "/api/v1/users/u1/stats", "tok-u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.InterviewStats
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.InterviewStatusOffer])
	assert.Equal(t, 0, stats.ByStatus[models.InterviewStatusCanceled])
}

func TestDocumentsAPI_UpdateRejectsNullPatch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, "/api/v1/users/u1/interviews/i1", "tok-u1", `null`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, web.CodeInvalidArgument, decodeError(t, rec).Code)
	env.repo.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, env.pub.changes)
}
