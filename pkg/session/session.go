// Package session keeps the rectangle groups owned by HTTP API clients.
//
// Each [Session] owns one scene with one group mounted on it. Sessions are
// identified by a random UUID, expire after a sliding TTL and serialize all
// access to their group through [Session.Do], since a group is not safe for
// concurrent use.
//
// # Usage
//
//	store := session.NewMemoryStore(session.DefaultTTL)
//	sess := session.New(scene.New(800, 600), group.DefaultConfig(), store.TTL())
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id)
//	if sess == nil {
//	    // not found or expired
//	}
//	err = sess.Do(func(s *scene.Scene, g *group.Group) error {
//	    g.AddRectangle()
//	    return nil
//	})
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// ErrExpired is returned by [Session.Do] on a session that has outlived its
// TTL.
var ErrExpired = errors.New("expired")

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Session owns a scene and the group attached to it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
	ttl       time.Duration
	scene     *scene.Scene
	group     *group.Group
}

// New creates a session whose group is built from cfg and attached to the
// scene root.
func New(s *scene.Scene, cfg group.Config, ttl time.Duration) *Session {
	g := group.New(s, s.Root(), group.WithConfig(cfg))
	g.Attach()
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		expiresAt: now.Add(ttl),
		ttl:       ttl,
		scene:     s,
		group:     g,
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// ExpiresAt returns the current expiry time.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Do runs fn with exclusive access to the session's scene and group and
// extends the session's lifetime.
func (s *Session) Do(fn func(*scene.Scene, *group.Group) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if now.After(s.expiresAt) {
		return ErrExpired
	}
	s.expiresAt = now.Add(s.ttl)
	return fn(s.scene, s.group)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns their IDs.
	Cleanup(ctx context.Context) ([]string, error)
}
