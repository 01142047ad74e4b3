package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/config"
	"github.com/SAP-F-2025/learning-platform/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		headerID string
		wantEcho bool
	}{
		{name: "generates id when absent"},
		{name: "echoes provided id", headerID: "req-123", wantEcho: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestIDMiddleware())

			var gotCtxID string
			router.GET("/", func(c *gin.Context) {
				gotCtxID = c.GetString("request_id")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.headerID != "" {
				req.Header.Set("X-Request-ID", tt.headerID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			headerID := w.Header().Get("X-Request-ID")
			if headerID == "" {
				t.Fatal("X-Request-ID header not set")
			}
			if gotCtxID != headerID {
				t.Errorf("context request_id = %q, header = %q", gotCtxID, headerID)
			}
			if tt.wantEcho && headerID != tt.headerID {
				t.Errorf("X-Request-ID = %q, want %q", headerID, tt.headerID)
			}
		})
	}
}

func TestRequireRoleMiddleware(t *testing.T) {
	cam := &CasdoorAuthMiddleware{}

	tests := []struct {
		name       string
		role       interface{}
		required   []models.UserRole
		wantStatus int
	}{
		{name: "no role in context", role: nil, required: []models.UserRole{models.RoleTeacher}, wantStatus: http.StatusForbidden},
		{name: "matching role", role: models.RoleTeacher, required: []models.UserRole{models.RoleTeacher}, wantStatus: http.StatusOK},
		{name: "admin overrides any requirement", role: models.RoleAdmin, required: []models.UserRole{models.RoleTeacher}, wantStatus: http.StatusOK},
		{name: "role mismatch", role: models.RoleStudent, required: []models.UserRole{models.RoleTeacher}, wantStatus: http.StatusForbidden},
		{name: "wrong type in context", role: "teacher", required: []models.UserRole{models.RoleTeacher}, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.role != nil {
					c.Set("user_role", tt.role)
				}
			})
			router.GET("/", cam.RequireRoleMiddleware(tt.required...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestSecurityMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestNewCasdoorAuthMiddleware_ClientConfig(t *testing.T) {
	cfg := config.CasdoorConfig{
		Endpoint:     "https://casdoor.example.com",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Cert:         "cert-pem",
		Organization: "built-in",
		Application:  "learning-platform",
	}

	cam := NewCasdoorAuthMiddleware(cfg, nil)

	if cam.client.OrganizationName != cfg.Organization {
		t.Errorf("client organization = %q, want %q", cam.client.OrganizationName, cfg.Organization)
	}
	if cam.client.ApplicationName != cfg.Application {
		t.Errorf("client application = %q, want %q", cam.client.ApplicationName, cfg.Application)
	}
	if cam.client.Certificate != cfg.Cert {
		t.Errorf("client certificate = %q, want %q", cam.client.Certificate, cfg.Cert)
	}
}
