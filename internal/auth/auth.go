// Package auth resolves bearer tokens to user IDs. Credentials and sessions
// are out of scope; tokens are either configured up front or issued when a
// user registers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/google/uuid"
)

var ErrUnknownToken = errors.New("unknown token")

// IdentityProvider resolves a bearer token to the caller's user ID
type IdentityProvider interface {
	Identify(ctx context.Context, token string) (string, error)
}

// Persister keeps issued tokens across restarts. GetTokenUser returns
// ledger.ErrTokenNotFound for a token it never saved.
type Persister interface {
	SaveToken(ctx context.Context, token, userID string, at time.Time) error
	GetTokenUser(ctx context.Context, token string) (string, error)
}

// TokenStore is an IdentityProvider that can also issue tokens. Configured
// tokens live in memory, issued ones go to the Persister when one is set.
type TokenStore struct {
	mu      sync.RWMutex
	tokens  map[string]string
	persist Persister
}

// NewTokenStore creates a store preloaded with token to user ID pairs
func NewTokenStore(static map[string]string) *TokenStore {
	tokens := make(map[string]string, len(static))
	for token, userID := range static {
		tokens[token] = userID
	}
	return &TokenStore{tokens: tokens}
}

// WithPersister stores issued tokens in p
func (s *TokenStore) WithPersister(p Persister) *TokenStore {
	s.persist = p
	return s
}

// Identify implements IdentityProvider
func (s *TokenStore) Identify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnknownToken
	}

	s.mu.RLock()
	userID, ok := s.tokens[token]
	s.mu.RUnlock()
	if ok {
		return userID, nil
	}
	if s.persist == nil {
		return "", ErrUnknownToken
	}

	userID, err := s.persist.GetTokenUser(ctx, token)
	if err != nil {
		if errors.Is(err, ledger.ErrTokenNotFound) {
			return "", ErrUnknownToken
		}
		return "", fmt.Errorf("error looking up token: %w", err)
	}
	return userID, nil
}

// Issue creates a new token for userID
func (s *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()

	if s.persist != nil {
		if err := s.persist.SaveToken(ctx, token, userID, time.Now()); err != nil {
			return "", fmt.Errorf("error saving token: %w", err)
		}
		return token, nil
	}

	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()

	return token, nil
}

// BearerToken extracts the token from an Authorization: Bearer header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type contextKey struct{}

// WithUserID returns a context carrying the authenticated user ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the authenticated user ID stored in ctx
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}
