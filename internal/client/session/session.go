// Package session keeps the signed-in user's token and profile summary in
// the client's persistent storage and attaches the token to outgoing API
// requests.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/eliteglam/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
)

// User is the stored summary of the signed-in user.
type User struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Credential is what a login hands to Persist.
type Credential struct {
	User  User
	Token string
}

// Session is one signed-in user's state. Several sessions may coexist, each
// over its own storage.
type Session struct {
	store  metadata.Repository
	logger logging.Logger
}

func New(store metadata.Repository, logger logging.Logger) *Session {
	return &Session{store: store, logger: logger.With("module", "session")}
}

// Persist stores the user record, then the token. A stored token always has
// its user record next to it: when the token write fails, both keys are
// removed so no earlier token survives beside the new user.
func (s *Session) Persist(ctx context.Context, c Credential) error {
	data, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Set(ctx, common.UserDataKey, data); err != nil {
		return err
	}
	if err := s.store.Set(ctx, common.UserTokenKey, []byte(c.Token)); err != nil {
		if clrErr := s.Clear(ctx); clrErr != nil {
			s.logger.Error(ctx, "failed to clear partial session", "error", clrErr)
		}
		return err
	}
	return nil
}

// Clear erases the token and the user record.
func (s *Session) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, common.UserTokenKey, common.UserDataKey)
}

// Token returns the stored token, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	v, err := s.store.Get(ctx, common.UserTokenKey)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// User returns the stored user record, or nil when there is none.
func (s *Session) User(ctx context.Context) (*User, error) {
	v, err := s.store.Get(ctx, common.UserDataKey)
	if err != nil || v == nil {
		return nil, err
	}

	var u User
	if err := json.Unmarshal(v, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// LoggedIn reports whether a token is stored.
func (s *Session) LoggedIn(ctx context.Context) bool {
	tok, err := s.Token(ctx)
	return err == nil && tok != ""
}

func (s *Session) discardToken(ctx context.Context, reason string) {
	if err := s.store.Delete(ctx, common.UserTokenKey); err != nil {
		s.logger.Error(ctx, "failed to discard token", "reason", reason, "error", err)
		return
	}
	s.logger.Info(ctx, "stored token discarded", "reason", reason)
}
