package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"nft-storefront/internal/client"
	"nft-storefront/internal/model"
	"nft-storefront/internal/session"
	"nft-storefront/internal/token"
)

// Auth owns the session: every login path writes through the one
// store, every consumer reads through this service. A failed login
// leaves the previous session untouched.
type Auth struct {
	api    client.AuthClient
	store  *session.Store
	logger *slog.Logger

	mu      sync.Mutex
	current *model.Session
	lastErr string
}

func NewAuth(api client.AuthClient, store *session.Store, logger *slog.Logger) *Auth {
	a := &Auth{
		api:    api,
		store:  store,
		logger: logger,
	}
	a.restore()
	return a
}

// restore loads the persisted session and drops it when the token has
// already expired.
func (a *Auth) restore() {
	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return
	}
	if err != nil {
		a.logger.Warn("session restore failed", "error", err)
		return
	}
	if sess.Token == "" || !token.IsValid(sess.Token) {
		if err := a.store.Clear(); err != nil {
			a.logger.Warn("clearing expired session failed", "error", err)
		}
		return
	}
	a.current = sess
}

// Login exchanges a Google credential for a session. Returns whether
// the login succeeded; the failure message is available via Err.
func (a *Auth) Login(ctx context.Context, credential string) bool {
	result, err := a.api.GoogleLogin(ctx, credential)
	return a.adopt(result, err)
}

// LoginWithMagicLink completes the email one-time-token flow.
func (a *Auth) LoginWithMagicLink(ctx context.Context, linkToken string) bool {
	result, err := a.api.VerifyMagicLink(ctx, linkToken)
	return a.adopt(result, err)
}

func (a *Auth) RequestMagicLink(ctx context.Context, email string) error {
	return a.api.RequestMagicLink(ctx, email)
}

func (a *Auth) adopt(result *client.LoginResult, err error) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.lastErr = err.Error()
		return false
	}

	sess := &model.Session{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	}
	if err := a.store.Save(sess); err != nil {
		// The login itself succeeded; keep the session for this run.
		a.logger.Warn("persisting session failed", "error", err)
	}
	a.current = sess
	a.lastErr = ""
	return true
}

// Logout notifies the backend best-effort and clears local state
// unconditionally.
func (a *Auth) Logout(ctx context.Context) {
	a.mu.Lock()
	sess := a.current
	a.mu.Unlock()

	if sess != nil && sess.Token != "" {
		if err := a.api.Logout(ctx, sess.Token); err != nil {
			a.logger.Warn("backend logout failed", "error", err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.store.Clear(); err != nil {
		a.logger.Warn("clearing session failed", "error", err)
	}
	a.current = nil
	a.lastErr = ""
}

// RefreshUser re-fetches the profile for the current token. A 401/403
// drops the session.
func (a *Auth) RefreshUser(ctx context.Context) bool {
	tok := a.Token()
	if tok == "" {
		return false
	}

	user, err := a.api.Me(ctx, tok)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.Logout(ctx)
			return false
		}
		a.mu.Lock()
		a.lastErr = err.Error()
		a.mu.Unlock()
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return false
	}
	a.current.User = user
	if err := a.store.Save(a.current); err != nil {
		a.logger.Warn("persisting session failed", "error", err)
	}
	a.lastErr = ""
	return true
}

// UpdateProfile patches the profile and refreshes the stored user.
func (a *Auth) UpdateProfile(ctx context.Context, patch *model.UserUpdate) bool {
	tok := a.Token()
	if tok == "" {
		return false
	}

	user, err := a.api.UpdateMe(ctx, tok, patch)
	if err != nil {
		a.mu.Lock()
		a.lastErr = err.Error()
		a.mu.Unlock()
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return false
	}
	a.current.User = user
	if err := a.store.Save(a.current); err != nil {
		a.logger.Warn("persisting session failed", "error", err)
	}
	a.lastErr = ""
	return true
}

// IsAuthenticated holds exactly when a token is present and unexpired.
// Liveness hint only; the signature is never checked here.
func (a *Auth) IsAuthenticated() bool {
	tok := a.Token()
	return tok != "" && token.IsValid(tok)
}

// TokenExpiresAt reports when the current token lapses, nil when no
// session exists or the token cannot be decoded.
func (a *Auth) TokenExpiresAt() *time.Time {
	return token.ExpiresAt(a.Token())
}

func (a *Auth) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return ""
	}
	return a.current.Token
}

func (a *Auth) User() *model.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	return a.current.User
}

func (a *Auth) Err() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// AuthHeader returns a bearer header only for a live token.
func (a *Auth) AuthHeader() map[string]string {
	return token.AuthHeader(a.Token())
}
