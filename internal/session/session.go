// Package session replaces ambient auth state with an explicit Session per
// login: created by Manager.Begin, cleared by Manager.End.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

// EndHook runs when a user's session ends.
type EndHook func(ctx context.Context, userID string)

// Manager owns the live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	profiles repository.ProfileRepository
	cache    Cache
	hooks    []EndHook
}

func NewManager(profiles repository.ProfileRepository, cache Cache) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		profiles: profiles,
		cache:    cache,
	}
}

// OnEnd registers fn to run whenever a session ends.
func (m *Manager) OnEnd(fn EndHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Begin returns the session for id, creating it on first login. A changed
// user_type ends the previous session first so its state is not reused.
func (m *Manager) Begin(ctx context.Context, id Identity) *Session {
	m.mu.Lock()
	s, ok := m.sessions[id.UserID]
	if ok && s.UserType() == id.UserType {
		s.touch(id)
		m.mu.Unlock()
		return s
	}
	m.mu.Unlock()

	if ok {
		logger.FromContext(ctx).WithPrefix("session").Info("user type changed for %s: %s -> %s", id.UserID, s.UserType(), id.UserType)
		m.End(ctx, id.UserID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id.UserID]; ok && s.UserType() == id.UserType {
		s.touch(id)
		return s
	}
	s = &Session{
		userID:   id.UserID,
		userType: id.UserType,
		profiles: m.profiles,
		cache:    m.cache,
	}
	s.touch(id)
	m.sessions[id.UserID] = s
	logger.FromContext(ctx).WithPrefix("session").Debug("session started for %s (%s)", id.UserID, id.UserType)
	return s
}

// Get returns the live session for userID.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// End clears the session and its cached profile and runs the end hooks.
func (m *Manager) End(ctx context.Context, userID string) {
	m.endIf(ctx, userID, nil)
}

// Sweep ends every session whose token expired or that has not been used
// for idle. It returns how many were ended.
func (m *Manager) Sweep(ctx context.Context, now time.Time, idle time.Duration) int {
	m.mu.Lock()
	var stale []*Session
	for _, s := range m.sessions {
		if s.stale(now, idle) {
			stale = append(stale, s)
		}
	}
	m.mu.Unlock()

	ended := 0
	for _, s := range stale {
		// a request may have renewed it since the scan
		still := func(cur *Session) bool { return cur == s && cur.stale(now, idle) }
		if m.endIf(ctx, s.userID, still) {
			ended++
		}
	}
	return ended
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, idle time.Duration) {
	log := logger.FromContext(ctx).WithPrefix("session")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(ctx, now, idle); n > 0 {
				log.Info("ended %d idle or expired sessions", n)
			}
		}
	}
}

// endIf ends userID's session. With a non-nil match it only does so while
// match approves the current session.
func (m *Manager) endIf(ctx context.Context, userID string, match func(*Session) bool) bool {
	log := logger.FromContext(ctx).WithPrefix("session")

	m.mu.Lock()
	cur, ok := m.sessions[userID]
	if match != nil && (!ok || !match(cur)) {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, userID)
	hooks := append([]EndHook(nil), m.hooks...)
	m.mu.Unlock()

	if err := m.cache.Delete(ctx, userID); err != nil {
		log.Warn("failed to clear cached profile for %s: %v", userID, err)
	}
	for _, fn := range hooks {
		fn(ctx, userID)
	}
	if ok {
		log.Debug("session ended for %s", userID)
	}
	return ok
}

// Session is one authenticated user's state.
type Session struct {
	userID   string
	userType models.UserType
	profiles repository.ProfileRepository
	cache    Cache

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	lastSeen  time.Time
}

func (s *Session) UserID() string             { return s.userID }
func (s *Session) UserType() models.UserType { return s.userType }

func (s *Session) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Identity{UserID: s.userID, UserType: s.userType, Token: s.token, ExpiresAt: s.expiresAt}
}

// Token is the caller's current access token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// touch records a request carrying id.
func (s *Session) touch(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = id.Token
	s.expiresAt = id.ExpiresAt
	s.lastSeen = time.Now()
}

func (s *Session) stale(now time.Time, idle time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.expiresAt.IsZero() && !now.Before(s.expiresAt) {
		return true
	}
	return idle > 0 && now.Sub(s.lastSeen) >= idle
}

// Profile returns the session copy of the base profile, loading it on a
// cache miss. A user without a profile row yields nil.
func (s *Session) Profile(ctx context.Context) (*models.BaseProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("session")

	p, ok, err := s.cache.Get(ctx, s.userID)
	if err != nil {
		log.Warn("profile cache read failed for %s: %v", s.userID, err)
	}
	if ok {
		return p, nil
	}
	return s.load(ctx)
}

// RefreshProfile reloads the base profile from the gateway so every reader
// of session data sees the latest write.
func (s *Session) RefreshProfile(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *Session) load(ctx context.Context) (*models.BaseProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("session")

	p, err := s.profiles.Get(ctx, s.userID)
	if repository.IsNotFound(err) {
		if err := s.cache.Delete(ctx, s.userID); err != nil {
			log.Warn("failed to clear cached profile for %s: %v", s.userID, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, *p); err != nil {
		log.Warn("profile cache write failed for %s: %v", s.userID, err)
	}
	return p, nil
}

type ctxKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok
}

// TokenFromContext returns the access token of the session in ctx, or "".
func TokenFromContext(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.Token()
	}
	return ""
}
