package casdoor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"golang.org/x/oauth2"

	"github.com/SAP-F-2025/learning-platform/internal/models"
	"github.com/SAP-F-2025/learning-platform/internal/store"
)

// TokenStore persists the current access token between runs so a session can
// be recovered on the next initialize. An empty token means "signed out".
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokenStore keeps the token in memory only; sessions do not survive a
// restart. Safe for concurrent use.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = t
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// NoopTokenStore never persists anything. The HTTP server uses it: its
// sessions are per-request bearer tokens, not process state, so saving the
// last signed-in user's token would leak one caller's session to another.
type NoopTokenStore struct{}

func (NoopTokenStore) Load() (string, error) { return "", nil }
func (NoopTokenStore) Save(string) error     { return nil }
func (NoopTokenStore) Clear() error          { return nil }

// AuthCasdoor implements store.AuthProvider against Casdoor. Sign-in uses the
// resource-owner password grant on the Casdoor token endpoint (the SDK only
// covers the authorization-code flow); everything else goes through the SDK.
type AuthCasdoor struct {
	client *casdoorsdk.Client
	config CasdoorConfig
	oauth  *oauth2.Config
	tokens TokenStore
	httpc  *http.Client
}

func NewAuthCasdoor(config CasdoorConfig, tokens TokenStore) *AuthCasdoor {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &AuthCasdoor{
		client: client,
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.Endpoint + "/login/oauth/authorize",
				TokenURL: config.Endpoint + "/api/login/oauth/access_token",
			},
		},
		tokens: tokens,
		httpc:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SignIn exchanges credentials for a token and persists it
func (a *AuthCasdoor) SignIn(ctx context.Context, email, password string) (*store.AuthSession, error) {
	token, err := a.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign-in rejected: %w", err)
	}

	session, err := a.sessionFromToken(token.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := a.tokens.Save(token.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist session token: %w", err)
	}

	return session, nil
}

// SignUp registers a new identity and signs it in. Profile metadata is
// passed through to Casdoor unmodified.
func (a *AuthCasdoor) SignUp(ctx context.Context, email, password string, data map[string]string) (*store.AuthSession, error) {
	name := email
	if at := strings.IndexByte(name, '@'); at > 0 {
		name = name[:at]
	}

	displayName := data["first_name"]
	if last := data["last_name"]; last != "" {
		if displayName != "" {
			displayName += " "
		}
		displayName += last
	}
	if displayName == "" {
		displayName = name
	}

	role := data["role"]
	if role == "" {
		role = string(models.RoleStudent)
	}

	casdoorUser := &casdoorsdk.User{
		Owner:       a.config.OrganizationName,
		Name:        name,
		DisplayName: displayName,
		Email:       email,
		Password:    password,
		Type:        role,
		CreatedTime: time.Now().UTC().Format(time.RFC3339),
	}

	ok, err := a.client.AddUser(casdoorUser)
	if err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("sign-up rejected for %s", email)
	}

	return a.SignIn(ctx, email, password)
}

// SignOut terminates the remote session, then drops the persisted token.
// The persisted token is kept when the remote call fails so local and remote
// state cannot disagree about who is signed in.
func (a *AuthCasdoor) SignOut(ctx context.Context, session *store.AuthSession) error {
	if session == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.Endpoint+"/api/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+session.Token)

	resp, err := a.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("logout rejected with status %d", resp.StatusCode)
	}

	return a.tokens.Clear()
}

// CurrentSession recovers a previously persisted session. No session and an
// expired session both return (nil, nil); they are the signed-out state, not
// errors.
func (a *AuthCasdoor) CurrentSession(ctx context.Context) (*store.AuthSession, error) {
	token, err := a.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	session, err := a.sessionFromToken(token)
	if err != nil {
		// Unparseable token is treated as signed out, not a fault
		a.tokens.Clear()
		return nil, nil
	}

	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(time.Now()) {
		a.tokens.Clear()
		return nil, nil
	}

	return session, nil
}

func (a *AuthCasdoor) sessionFromToken(token string) (*store.AuthSession, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	session := &store.AuthSession{
		Token:  token,
		UserID: claims.Id,
		Email:  claims.User.Email,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
