package store

import (
	"context"
	"sync"

	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/models"
	"github.com/blockedby/interview-list/internal/routes"
)

// AuthRemote is the part of the remote service the user store needs.
type AuthRemote interface {
	SignUp(ctx context.Context, email, password string) (*models.Credential, error)
	SignIn(ctx context.Context, email, password string) (*models.Credential, error)
	SignOut(ctx context.Context) error
	OnAuthStateChanged(fn func(*models.AuthUser)) (unsubscribe func())
}

// UserStore tracks who is signed in.
type UserStore struct {
	remote AuthRemote
	nav    Navigator
	notify Notifier
	log    *logger.Logger

	mu          sync.RWMutex
	userID      *string
	loading     bool
	authReady   bool
	subscribed  bool
	unsubscribe func()
	ready       chan struct{}

	observers observers
}

// NewUserStore creates a UserStore. Call InitAuth before relying on UserID.
func NewUserStore(remote AuthRemote, nav Navigator, notify Notifier, log *logger.Logger) *UserStore {
	return &UserStore{
		remote: remote,
		nav:    nav,
		notify: notify,
		log:    log.Component("user_store"),
		ready:  make(chan struct{}),
	}
}

// InitAuth subscribes to auth-state changes. The returned channel is closed
// when the first auth state arrives; later changes only update the user id.
// Calling InitAuth again returns the same channel without subscribing twice.
func (s *UserStore) InitAuth() <-chan struct{} {
	s.mu.Lock()
	if s.subscribed {
		s.mu.Unlock()
		return s.ready
	}
	s.subscribed = true
	s.mu.Unlock()

	unsubscribe := s.remote.OnAuthStateChanged(s.onAuthStateChanged)

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	return s.ready
}

func (s *UserStore) onAuthStateChanged(user *models.AuthUser) {
	s.mu.Lock()
	if user == nil {
		s.userID = nil
	} else {
		id := user.ID
		s.userID = &id
	}
	first := !s.authReady
	s.authReady = true
	s.mu.Unlock()

	if first {
		close(s.ready)
	}
	s.log.Debug().Bool("signed_in", user != nil).Msg("auth state changed")
	s.observers.notify()
}

// SignUp registers a new account and, on success, opens the interview list.
// A failure is shown as a toast and returned.
func (s *UserStore) SignUp(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "sign up", s.remote.SignUp, email, password)
}

// SignIn signs in and, on success, opens the interview list.
// A failure is shown as a toast and returned.
func (s *UserStore) SignIn(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "sign in", s.remote.SignIn, email, password)
}

type authFunc func(ctx context.Context, email, password string) (*models.Credential, error)

func (s *UserStore) authenticate(ctx context.Context, op string, fn authFunc, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := fn(ctx, email, password); err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("authentication failed")
		s.notify.Error(err)
		return err
	}

	s.nav.Navigate(routes.PathInterviews)
	return nil
}

// SignOut ends the session. A failure is shown as a toast and returned.
func (s *UserStore) SignOut(ctx context.Context) error {
	if err := s.remote.SignOut(ctx); err != nil {
		s.notify.Error(err)
		return err
	}
	return nil
}

// Close drops the auth-state subscription.
func (s *UserStore) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *UserStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.observers.notify()
}

// UserID returns the signed-in user's id, or "" when signed out.
func (s *UserStore) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == nil {
		return ""
	}
	return *s.userID
}

// IsLoggedIn reports whether a user id is known.
func (s *UserStore) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID != nil
}

// Loading reports whether a sign-in or sign-up is in flight.
func (s *UserStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// AuthReady reports whether the first auth state has arrived.
func (s *UserStore) AuthReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authReady
}

// Subscribe registers fn to run after every state change.
func (s *UserStore) Subscribe(fn func()) (unsubscribe func()) {
	return s.observers.subscribe(fn)
}
