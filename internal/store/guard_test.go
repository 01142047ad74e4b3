package store

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/learning-platform/internal/models"
)

func guardFixture(t *testing.T, state SessionState, role models.UserRole) (*SessionStore, *RouteGuard) {
	t.Helper()

	provider := &fakeAuthProvider{}
	profiles := testProfiles()
	store := NewSessionStore(provider, profiles, nil)

	switch state {
	case StateUninitialized:
		// leave as constructed
	case StateLoading:
		store.mu.Lock()
		store.state = StateLoading
		store.mu.Unlock()
	case StateAnonymous:
		store.Initialize(context.Background())
	case StateAuthenticated:
		session := testSession("u1", "one@example.com")
		store.setAuthenticated(session, &models.User{ID: "u1", Role: role})
	}

	return store, NewRouteGuard(store)
}

func TestRouteGuard_Decide(t *testing.T) {
	adminOnly := RouteRequirement{RequireAuth: true, AllowedRoles: []models.UserRole{models.RoleAdmin}}
	staff := RouteRequirement{RequireAuth: true, AllowedRoles: []models.UserRole{models.RoleTeacher, models.RoleAdmin}}
	authOnly := RouteRequirement{RequireAuth: true}
	public := RouteRequirement{}

	tests := []struct {
		name  string
		state SessionState
		role  models.UserRole
		req   RouteRequirement
		want  GuardDecision
	}{
		{"public route renders while loading", StateLoading, "", public, DecisionRender},
		{"guarded route shows loading before initialize", StateUninitialized, "", authOnly, DecisionShowLoading},
		{"guarded route shows loading mid-initialize", StateLoading, "", authOnly, DecisionShowLoading},
		{"anonymous user redirected to sign-in", StateAnonymous, "", authOnly, DecisionRedirectSignIn},
		{"anonymous user redirected from admin route", StateAnonymous, "", adminOnly, DecisionRedirectSignIn},
		{"authenticated user renders auth-only route", StateAuthenticated, models.RoleStudent, authOnly, DecisionRender},
		{"student redirected home from admin route", StateAuthenticated, models.RoleStudent, adminOnly, DecisionRedirectHome},
		{"teacher renders staff route", StateAuthenticated, models.RoleTeacher, staff, DecisionRender},
		{"admin renders staff route", StateAuthenticated, models.RoleAdmin, staff, DecisionRender},
		{"teacher redirected home from admin route", StateAuthenticated, models.RoleTeacher, adminOnly, DecisionRedirectHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, guard := guardFixture(t, tt.state, tt.role)
			if got := guard.Decide(tt.req); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A decision is recomputed from live state: the same guard flips its answer
// after the session settles.
func TestRouteGuard_Decide_TracksStateChanges(t *testing.T) {
	store, guard := guardFixture(t, StateLoading, "")
	authOnly := RouteRequirement{RequireAuth: true}

	if got := guard.Decide(authOnly); got != DecisionShowLoading {
		t.Fatalf("while loading: %v, want show_loading", got)
	}

	store.Initialize(context.Background())
	if got := guard.Decide(authOnly); got != DecisionRedirectSignIn {
		t.Fatalf("after anonymous settle: %v, want redirect_sign_in", got)
	}

	store.setAuthenticated(testSession("u1", "one@example.com"), &models.User{ID: "u1", Role: models.RoleStudent})
	if got := guard.Decide(authOnly); got != DecisionRender {
		t.Fatalf("after sign-in: %v, want render", got)
	}
}
