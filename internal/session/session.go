// Package session holds the operator's backend credentials. A Session is
// handed to the API client explicitly; nothing reads credentials from
// ambient state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

// ErrNotFound is returned by a Store that has nothing under the key.
var ErrNotFound = errors.New("session state not found")

// State is what survives a restart: the bearer token and the last known user.
type State struct {
	Token     string
	User      *models.User
	UpdatedAt time.Time
}

type Store interface {
	Load(ctx context.Context, key string) (State, error)
	Save(ctx context.Context, key string, st State) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	key   string
	store Store
	now   func() time.Time

	mu    sync.RWMutex
	token string
	user  *models.User
}

func New(store Store, key string) *Session {
	return &Session{key: key, store: store, now: time.Now}
}

func (s *Session) Key() string { return s.key }

// Init reads the persisted state, if any.
func (s *Session) Init(ctx context.Context) error {
	st, err := s.store.Load(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session init: %w", err)
	}
	s.mu.Lock()
	s.token, s.user = st.Token, st.User
	s.mu.Unlock()
	return nil
}

// Authenticate stores fresh credentials in memory and in the store.
func (s *Session) Authenticate(ctx context.Context, token string, user models.User) error {
	s.mu.Lock()
	s.token, s.user = token, &user
	s.mu.Unlock()
	if err := s.store.Save(ctx, s.key, State{Token: token, User: &user, UpdatedAt: s.now().UTC()}); err != nil {
		return fmt.Errorf("session persist: %w", err)
	}
	return nil
}

// Invalidate forgets the credentials, in memory first so a failing store
// never leaves a usable token behind.
func (s *Session) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.token, s.user = "", nil
	s.mu.Unlock()
	if err := s.store.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a token is held and, when the token is a
// JWT carrying an exp claim, whether it is still unexpired. The backend
// stays the authority; this only avoids sending a token known to be dead.
func (s *Session) Authenticated() bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	exp, ok := tokenExpiry(tok)
	return !ok || s.now().Before(exp)
}

func tokenExpiry(tok string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
