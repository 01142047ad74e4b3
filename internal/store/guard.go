package store

import (
	"github.com/SAP-F-2025/learning-platform/internal/models"
)

// GuardDecision is the outcome of evaluating a route requirement against the
// current session state.
type GuardDecision string

const (
	DecisionShowLoading    GuardDecision = "show_loading"
	DecisionRedirectSignIn GuardDecision = "redirect_sign_in"
	DecisionRedirectHome   GuardDecision = "redirect_home"
	DecisionRender         GuardDecision = "render"
)

// RouteRequirement declares what a route needs from the session. An empty
// AllowedRoles means any authenticated user may enter; RequireAuth false
// makes the route public.
type RouteRequirement struct {
	RequireAuth  bool
	AllowedRoles []models.UserRole
}

// RouteGuard decides route access from live SessionStore state. It holds no
// state of its own: every Decide call re-reads the store, so a decision is
// never computed from a stale snapshot.
type RouteGuard struct {
	sessions *SessionStore
}

func NewRouteGuard(sessions *SessionStore) *RouteGuard {
	return &RouteGuard{sessions: sessions}
}

// Decide evaluates the requirement in order: still resolving the session
// shows loading; a missing session redirects to sign-in; a role mismatch
// redirects home; everything else renders.
func (g *RouteGuard) Decide(req RouteRequirement) GuardDecision {
	if !req.RequireAuth && len(req.AllowedRoles) == 0 {
		return DecisionRender
	}

	switch g.sessions.State() {
	case StateUninitialized, StateLoading:
		return DecisionShowLoading
	}

	if !g.sessions.IsAuthenticated() {
		return DecisionRedirectSignIn
	}

	if len(req.AllowedRoles) == 0 {
		return DecisionRender
	}

	role := g.sessions.Role()
	for _, allowed := range req.AllowedRoles {
		if role == allowed {
			return DecisionRender
		}
	}
	return DecisionRedirectHome
}
