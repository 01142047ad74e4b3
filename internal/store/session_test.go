package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// ===== TEST DOUBLES =====

type fakeAuthProvider struct {
	signInFn         func(ctx context.Context, email, password string) (*AuthSession, error)
	signUpFn         func(ctx context.Context, email, password string, data map[string]string) (*AuthSession, error)
	signOutFn        func(ctx context.Context, session *AuthSession) error
	currentSessionFn func(ctx context.Context) (*AuthSession, error)
}

func (f *fakeAuthProvider) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	if f.signInFn == nil {
		return nil, errors.New("sign-in not configured")
	}
	return f.signInFn(ctx, email, password)
}

func (f *fakeAuthProvider) SignUp(ctx context.Context, email, password string, data map[string]string) (*AuthSession, error) {
	if f.signUpFn == nil {
		return nil, errors.New("sign-up not configured")
	}
	return f.signUpFn(ctx, email, password, data)
}

func (f *fakeAuthProvider) SignOut(ctx context.Context, session *AuthSession) error {
	if f.signOutFn == nil {
		return nil
	}
	return f.signOutFn(ctx, session)
}

func (f *fakeAuthProvider) CurrentSession(ctx context.Context) (*AuthSession, error) {
	if f.currentSessionFn == nil {
		return nil, nil
	}
	return f.currentSessionFn(ctx)
}

type fakeProfileLoader struct {
	profiles map[string]*models.User
	err      error
}

func (f *fakeProfileLoader) LoadProfile(ctx context.Context, userID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, errors.New("profile not found")
	}
	return profile, nil
}

func testSession(userID, email string) *AuthSession {
	return &AuthSession{
		Token:     "token-" + userID,
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func testProfiles() *fakeProfileLoader {
	return &fakeProfileLoader{profiles: map[string]*models.User{
		"u1": {ID: "u1", Email: "one@example.com", Role: models.RoleStudent},
		"u2": {ID: "u2", Email: "two@example.com", Role: models.RoleAdmin},
	}}
}

// ===== TESTS =====

func TestSessionStore_Initialize(t *testing.T) {
	tests := []struct {
		name        string
		provider    *fakeAuthProvider
		wantState   SessionState
		wantSession bool
		wantProfile bool
	}{
		{
			name:      "no persisted session settles anonymous",
			provider:  &fakeAuthProvider{},
			wantState: StateAnonymous,
		},
		{
			name: "persisted session settles authenticated with profile",
			provider: &fakeAuthProvider{
				currentSessionFn: func(ctx context.Context) (*AuthSession, error) {
					return testSession("u1", "one@example.com"), nil
				},
			},
			wantState:   StateAuthenticated,
			wantSession: true,
			wantProfile: true,
		},
		{
			name: "provider failure settles anonymous, not stuck loading",
			provider: &fakeAuthProvider{
				currentSessionFn: func(ctx context.Context) (*AuthSession, error) {
					return nil, errors.New("identity service unreachable")
				},
			},
			wantState: StateAnonymous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewSessionStore(tt.provider, testProfiles(), nil)

			if got := store.State(); got != StateUninitialized {
				t.Fatalf("initial state = %v, want %v", got, StateUninitialized)
			}

			store.Initialize(context.Background())

			if got := store.State(); got != tt.wantState {
				t.Errorf("state = %v, want %v", got, tt.wantState)
			}
			if store.IsLoading() {
				t.Error("loading flag still set after initialize")
			}
			if (store.Session() != nil) != tt.wantSession {
				t.Errorf("session present = %v, want %v", store.Session() != nil, tt.wantSession)
			}
			if (store.Profile() != nil) != tt.wantProfile {
				t.Errorf("profile present = %v, want %v", store.Profile() != nil, tt.wantProfile)
			}
		})
	}
}

func TestSessionStore_Initialize_ProfileFailureKeepsSession(t *testing.T) {
	provider := &fakeAuthProvider{
		currentSessionFn: func(ctx context.Context) (*AuthSession, error) {
			return testSession("u1", "one@example.com"), nil
		},
	}
	store := NewSessionStore(provider, &fakeProfileLoader{err: errors.New("db down")}, nil)

	store.Initialize(context.Background())

	if store.State() != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", store.State())
	}
	if store.Profile() != nil {
		t.Error("profile should stay nil when the load fails")
	}
}

func TestSessionStore_SignIn(t *testing.T) {
	t.Run("success sets session and profile together", func(t *testing.T) {
		provider := &fakeAuthProvider{
			signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
				return testSession("u1", email), nil
			},
		}
		store := NewSessionStore(provider, testProfiles(), nil)

		result := store.SignIn(context.Background(), "one@example.com", "secret")
		if !result.Success {
			t.Fatalf("sign-in failed: %v", result.Err)
		}
		if store.Session() == nil || store.Profile() == nil {
			t.Error("session and profile must both be set after sign-in")
		}
		if store.State() != StateAuthenticated {
			t.Errorf("state = %v, want authenticated", store.State())
		}
	})

	t.Run("rejected credentials leave state unchanged", func(t *testing.T) {
		provider := &fakeAuthProvider{
			signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
				return nil, errors.New("invalid credentials")
			},
		}
		store := NewSessionStore(provider, testProfiles(), nil)
		store.Initialize(context.Background())

		result := store.SignIn(context.Background(), "one@example.com", "wrong")
		if result.Success {
			t.Fatal("expected failure result")
		}
		if result.Error() == "" {
			t.Error("failure result must carry an error message")
		}
		if store.State() != StateAnonymous || store.Session() != nil {
			t.Error("failed sign-in must not change session state")
		}
	})

	t.Run("rejected sign-in keeps an existing session", func(t *testing.T) {
		calls := 0
		provider := &fakeAuthProvider{
			signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
				calls++
				if calls == 1 {
					return testSession("u1", email), nil
				}
				return nil, errors.New("invalid credentials")
			},
		}
		store := NewSessionStore(provider, testProfiles(), nil)
		store.SignIn(context.Background(), "one@example.com", "secret")

		store.SignIn(context.Background(), "two@example.com", "wrong")
		if got := store.Session(); got == nil || got.UserID != "u1" {
			t.Error("existing session must survive a rejected sign-in")
		}
	})
}

func TestSessionStore_SignOut(t *testing.T) {
	t.Run("success clears session and profile together", func(t *testing.T) {
		provider := &fakeAuthProvider{
			signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
				return testSession("u1", email), nil
			},
		}
		store := NewSessionStore(provider, testProfiles(), nil)
		store.SignIn(context.Background(), "one@example.com", "secret")

		result := store.SignOut(context.Background())
		if !result.Success {
			t.Fatalf("sign-out failed: %v", result.Err)
		}
		if store.Session() != nil || store.Profile() != nil {
			t.Error("session and profile must both be cleared")
		}
		if store.State() != StateAnonymous {
			t.Errorf("state = %v, want anonymous", store.State())
		}
	})

	t.Run("remote failure keeps the local session", func(t *testing.T) {
		provider := &fakeAuthProvider{
			signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
				return testSession("u1", email), nil
			},
			signOutFn: func(ctx context.Context, session *AuthSession) error {
				return errors.New("identity service unreachable")
			},
		}
		store := NewSessionStore(provider, testProfiles(), nil)
		store.SignIn(context.Background(), "one@example.com", "secret")

		result := store.SignOut(context.Background())
		if result.Success {
			t.Fatal("expected failure result")
		}
		if store.Session() == nil {
			t.Error("local session must survive a failed remote sign-out")
		}
	})

	t.Run("sign-out without a session is a no-op success", func(t *testing.T) {
		store := NewSessionStore(&fakeAuthProvider{}, testProfiles(), nil)
		if result := store.SignOut(context.Background()); !result.Success {
			t.Errorf("sign-out with no session should succeed, got %v", result.Err)
		}
	})
}

func TestSessionStore_Subscribe(t *testing.T) {
	provider := &fakeAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
			return testSession("u1", email), nil
		},
	}
	store := NewSessionStore(provider, testProfiles(), nil)

	var events []AuthEvent
	unsubscribe := store.Subscribe(func(event AuthEvent, session *AuthSession) {
		events = append(events, event)
	})

	store.SignIn(context.Background(), "one@example.com", "secret")
	store.SignOut(context.Background())

	if len(events) != 2 || events[0] != EventSignedIn || events[1] != EventSignedOut {
		t.Fatalf("events = %v, want [signed_in signed_out]", events)
	}

	unsubscribe()
	unsubscribe() // second call is harmless
	store.SignIn(context.Background(), "one@example.com", "secret")

	if len(events) != 2 {
		t.Errorf("listener fired after unsubscribe, events = %v", events)
	}
}

func TestSessionStore_FetchProfile(t *testing.T) {
	provider := &fakeAuthProvider{
		signInFn: func(ctx context.Context, email, password string) (*AuthSession, error) {
			return testSession("u1", email), nil
		},
	}
	profiles := &fakeProfileLoader{err: errors.New("db down")}
	store := NewSessionStore(provider, profiles, nil)
	store.SignIn(context.Background(), "one@example.com", "secret")

	if result := store.FetchProfile(context.Background()); result.Success {
		t.Fatal("expected failure while the loader is down")
	}

	profiles.err = nil
	profiles.profiles = map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleTeacher},
	}

	result := store.FetchProfile(context.Background())
	if !result.Success {
		t.Fatalf("fetch profile failed: %v", result.Err)
	}
	if store.Role() != models.RoleTeacher {
		t.Errorf("role = %v, want teacher", store.Role())
	}
}
