// ABOUTME: Session store mapping opaque client tokens to the selected user.
// ABOUTME: In-memory implementation with per-entry expiry; see redis.go for Redis.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNoSession is returned when a token is unknown or expired.
var ErrNoSession = errors.New("no user selected")

// DefaultTTL is how long a selection lasts without being refreshed.
const DefaultTTL = 24 * time.Hour

// Store maps session tokens to user IDs.
type Store interface {
	// Select binds userID to token and returns the token. An empty token
	// starts a new session.
	Select(ctx context.Context, token string, userID int64) (string, error)
	// UserID returns the user bound to token.
	UserID(ctx context.Context, token string) (int64, error)
	// Clear ends the session.
	Clear(ctx context.Context, token string) error
	Close() error
}

// NewToken returns a fresh random session token.
func NewToken() string {
	return uuid.NewString()
}

type entry struct {
	userID  int64
	expires time.Time
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]entry
	swept    time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]entry),
	}
}

func (s *MemoryStore) Select(_ context.Context, token string, userID int64) (string, error) {
	if token == "" {
		token = NewToken()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.sessions[token] = entry{userID: userID, expires: now.Add(s.ttl)}
	return token, nil
}

// sweep drops expired entries, at most once per ttl. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.swept) < s.ttl {
		return
	}
	for token, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, token)
		}
	}
	s.swept = now
}

func (s *MemoryStore) UserID(_ context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return 0, ErrNoSession
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, token)
		return 0, ErrNoSession
	}
	return e.userID, nil
}

func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
