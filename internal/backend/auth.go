package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/blockedby/interview-list/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Credential, error) {
	return c.authenticate(ctx, "/api/v1/auth/signup", email, password)
}

// SignIn signs in with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Credential, error) {
	return c.authenticate(ctx, "/api/v1/auth/signin", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*models.Credential, error) {
	var cred models.Credential
	if err := c.do(ctx, http.MethodPost, path, nil, credentialsRequest{Email: email, Password: password}, &cred); err != nil {
		return nil, err
	}

	c.setCredential(&cred)
	return &cred, nil
}

// SignOut forgets the current credential. Listeners see a nil user.
func (c *Client) SignOut(_ context.Context) error {
	c.setCredential(nil)
	return nil
}

// Restore loads a persisted credential and checks it against the backend.
// A rejected or missing credential leaves the client signed out.
func (c *Client) Restore(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}

	cred, err := c.sessions.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if cred == nil || cred.Token == "" {
		return nil
	}

	c.mu.Lock()
	c.cred = cred
	c.mu.Unlock()

	var me models.AuthUser
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &me); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			c.log.Info().Msg("stored session expired, signing out")
			c.setCredential(nil)
			return nil
		}
		c.mu.Lock()
		c.cred = nil
		c.mu.Unlock()
		return fmt.Errorf("verify session: %w", err)
	}

	c.log.Debug().Str("user_id", me.ID).Msg("session restored")
	return nil
}

// CurrentUser returns the signed-in user or nil.
func (c *Client) CurrentUser() *models.AuthUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return userOf(c.cred)
}

// OnAuthStateChanged calls fn with the current user right away and again on
// every sign in or sign out. The returned function unsubscribes.
func (c *Client) OnAuthStateChanged(fn func(*models.AuthUser)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	current := userOf(c.cred)
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// setCredential swaps the credential, persists it and notifies listeners
// before returning, so a caller sees the new state once SignIn returns.
func (c *Client) setCredential(cred *models.Credential) {
	c.mu.Lock()
	c.cred = cred
	fns := make([]func(*models.AuthUser), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	if c.sessions != nil {
		var err error
		if cred == nil {
			err = c.sessions.Clear()
		} else {
			err = c.sessions.Save(cred)
		}
		if err != nil {
			c.log.Warn().Err(err).Msg("failed to persist session")
		}
	}

	user := userOf(cred)
	for _, fn := range fns {
		fn(user)
	}
}

func userOf(cred *models.Credential) *models.AuthUser {
	if cred == nil {
		return nil
	}
	return &models.AuthUser{ID: cred.UserID, Email: cred.Email}
}
