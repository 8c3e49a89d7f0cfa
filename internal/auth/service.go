// Package auth is the account service: sign-up, sign-in and session tokens.
// Failures are *Error values carrying the codes clients switch on.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/repository"
)

// MinPasswordLength is the provider's own rule, looser than the client form.
const MinPasswordLength = 6

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service authenticates users.
type Service struct {
	users    UserRepository
	tokens   *TokenMaker
	validate *validator.Validate
	log      *logger.Logger
	cost     int
}

// NewService creates an auth Service.
func NewService(users UserRepository, tokens *TokenMaker, log *logger.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
		log:      log.Component("auth"),
		cost:     bcrypt.DefaultCost,
	}
}

// SignUp creates an account and returns a session for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (*models.Credential, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, errWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailAlreadyInUse
		}
		return nil, fmt.Errorf("sign up: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return s.credential(user)
}

// SignIn checks email and password and returns a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Credential, error) {
	email = normalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if user.Disabled {
		return nil, errUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug().Str("user_id", user.ID.String()).Msg("wrong password")
		return nil, errWrongPassword
	}

	return s.credential(user)
}

// Authenticate verifies a bearer token and returns its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.AuthUser, error) {
	if token == "" {
		return nil, errUnauthenticated
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, errUnauthenticated
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errUnauthenticated
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user.Disabled {
		return nil, errUserDisabled
	}

	return &models.AuthUser{ID: user.ID.String(), Email: user.Email}, nil
}

func (s *Service) credential(user *models.User) (*models.Credential, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}
	return &models.Credential{UserID: user.ID.String(), Email: user.Email, Token: token}, nil
}

func (s *Service) checkEmail(email string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return errInvalidEmail
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StatusOf returns the HTTP status for err: the *Error status when err is
// one, otherwise 500.
func StatusOf(err error) int {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Status
	}
	return http.StatusInternalServerError
}
