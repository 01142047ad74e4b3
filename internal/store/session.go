package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// SessionState is the lifecycle phase of the SessionStore.
type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateLoading       SessionState = "loading"
	StateAuthenticated SessionState = "authenticated"
	StateAnonymous     SessionState = "anonymous"
)

// AuthEvent classifies a session transition delivered to subscribers.
type AuthEvent string

const (
	EventSignedIn    AuthEvent = "signed_in"
	EventSignedOut   AuthEvent = "signed_out"
	EventInitialized AuthEvent = "initialized"
)

// AuthListener receives session transitions. The session argument is nil for
// transitions into the anonymous state.
type AuthListener func(event AuthEvent, session *AuthSession)

// Unsubscribe detaches a previously registered AuthListener. Calling it more
// than once is harmless.
type Unsubscribe func()

// SessionStore owns the current session and its profile. The two are set and
// cleared together under one mutex so no reader ever observes a session
// without knowing whether its profile is settled.
//
// Failed operations never change state: a rejected sign-in leaves an existing
// session untouched, and a failed sign-out keeps the session so local and
// remote state cannot disagree.
type SessionStore struct {
	provider AuthProvider
	profiles ProfileLoader
	logger   *slog.Logger

	mu        sync.RWMutex
	state     SessionState
	session   *AuthSession
	profile   *models.User
	listeners map[int]AuthListener
	nextID    int
}

func NewSessionStore(provider AuthProvider, profiles ProfileLoader, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		provider:  provider,
		profiles:  profiles,
		logger:    logger,
		state:     StateUninitialized,
		listeners: make(map[int]AuthListener),
	}
}

// ===== SUBSCRIPTION =====

// Subscribe registers a listener for session transitions and returns the
// function that detaches it. Listeners are invoked synchronously, outside the
// store mutex, in the goroutine that performed the transition.
func (s *SessionStore) Subscribe(listener AuthListener) Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *SessionStore) notify(event AuthEvent, session *AuthSession) {
	s.mu.RLock()
	listeners := make([]AuthListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(event, session)
	}
}

// ===== LIFECYCLE =====

// Initialize recovers a persisted session, if any, and settles the store into
// the authenticated or anonymous state. The loading phase always terminates,
// including when the provider or the profile load fails.
func (s *SessionStore) Initialize(ctx context.Context) Result[*models.User] {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	session, err := s.provider.CurrentSession(ctx)
	if err != nil {
		s.logger.Warn("session recovery failed, starting anonymous", "error", err)
		session = nil
	}

	if session == nil {
		s.setAnonymous()
		s.notify(EventInitialized, nil)
		return Ok[*models.User](nil)
	}

	profile := s.loadProfile(ctx, session.UserID)
	s.setAuthenticated(session, profile)
	s.notify(EventInitialized, session)
	return Ok(profile)
}

// ===== OPERATIONS =====

// SignIn authenticates with the remote provider. On failure the store is left
// exactly as it was.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) Result[*models.User] {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Fail[*models.User](err)
	}

	profile := s.loadProfile(ctx, session.UserID)
	s.setAuthenticated(session, profile)
	s.notify(EventSignedIn, session)
	return Ok(profile)
}

// SignUp registers a new account and signs it in.
func (s *SessionStore) SignUp(ctx context.Context, email, password string, data map[string]string) Result[*models.User] {
	session, err := s.provider.SignUp(ctx, email, password, data)
	if err != nil {
		return Fail[*models.User](err)
	}

	profile := s.loadProfile(ctx, session.UserID)
	s.setAuthenticated(session, profile)
	s.notify(EventSignedIn, session)
	return Ok(profile)
}

// SignOut terminates the remote session first; session and profile are only
// cleared once the provider confirms.
func (s *SessionStore) SignOut(ctx context.Context) Result[struct{}] {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	if session == nil {
		return Ok(struct{}{})
	}

	if err := s.provider.SignOut(ctx, session); err != nil {
		return Fail[struct{}](fmt.Errorf("sign-out failed: %w", err))
	}

	s.setAnonymous()
	s.notify(EventSignedOut, nil)
	return Ok(struct{}{})
}

// FetchProfile reloads the profile for the current session.
func (s *SessionStore) FetchProfile(ctx context.Context) Result[*models.User] {
	s.mu.RLock()
	session := s.session
	s.mu.RUnlock()

	if session == nil {
		return Fail[*models.User](fmt.Errorf("no active session"))
	}

	profile, err := s.profiles.LoadProfile(ctx, session.UserID)
	if err != nil {
		return Fail[*models.User](fmt.Errorf("failed to load profile: %w", err))
	}

	s.mu.Lock()
	if s.session == session {
		s.profile = profile
	}
	s.mu.Unlock()
	return Ok(profile)
}

// ===== STATE ACCESSORS =====

func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionStore) Session() *AuthSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionStore) Profile() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *SessionStore) IsLoading() bool {
	return s.State() == StateLoading
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

// Role returns the profile role, or "" when no profile is loaded.
func (s *SessionStore) Role() models.UserRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Role
}

// ===== INTERNAL =====

// loadProfile fetches the profile for an authenticated user. A profile load
// failure does not invalidate the session; the profile stays nil until a
// later FetchProfile succeeds.
func (s *SessionStore) loadProfile(ctx context.Context, userID string) *models.User {
	profile, err := s.profiles.LoadProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("profile load failed", "user_id", userID, "error", err)
		return nil
	}
	return profile
}

func (s *SessionStore) setAuthenticated(session *AuthSession, profile *models.User) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.session = session
	s.profile = profile
	s.mu.Unlock()
}

func (s *SessionStore) setAnonymous() {
	s.mu.Lock()
	s.state = StateAnonymous
	s.session = nil
	s.profile = nil
	s.mu.Unlock()
}
