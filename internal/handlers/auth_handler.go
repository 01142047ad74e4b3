package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-platform/internal/repositories"
	"github.com/SAP-F-2025/learning-platform/internal/store"
	"github.com/SAP-F-2025/learning-platform/internal/utils"
	"github.com/SAP-F-2025/learning-platform/internal/validator"
)

// SessionResponse is the payload returned after a successful sign-in or sign-up
type SessionResponse struct {
	Token     string      `json:"token"`
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	ExpiresAt string      `json:"expires_at"`
	User      interface{} `json:"user,omitempty"`
}

type AuthHandler struct {
	BaseHandler
	auth      store.AuthProvider
	userRepo  repositories.UserRepository
	validator *validator.Validator
}

func NewAuthHandler(auth store.AuthProvider, userRepo repositories.UserRepository, v *validator.Validator, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		auth:        auth,
		userRepo:    userRepo,
		validator:   v,
	}
}

// ===== AUTH ENDPOINTS =====

// SignIn authenticates a user with email and password
// @Summary Sign in
// @Description Authenticate with email and password, returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.SignInRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	h.LogRequest(c, "Signing in")

	var req validator.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Struct(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs.Error(),
		})
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Invalid credentials",
		})
		return
	}

	c.JSON(http.StatusOK, h.sessionResponse(c, session))
}

// SignUp registers a new student account
// @Summary Sign up
// @Description Register a new student account and sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.SignUpRequest true "Registration data"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	h.LogRequest(c, "Signing up")

	var req validator.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Struct(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs.Error(),
		})
		return
	}

	session, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, map[string]string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, ErrorResponse{
				Message: "Email already registered",
			})
			return
		}
		h.LogError(c, err, "Sign up failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to register account",
		})
		return
	}

	c.JSON(http.StatusCreated, h.sessionResponse(c, session))
}

// SignOut revokes the current session token
// @Summary Sign out
// @Description Revoke the bearer token of the current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 204 "Signed out"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.LogRequest(c, "Signing out")

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authorization header missing",
		})
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), &store.AuthSession{Token: token}); err != nil {
		h.LogError(c, err, "Sign out failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to sign out",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// Me returns the profile of the authenticated user
// @Summary Current user
// @Description Return the profile of the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Unauthorized",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// sessionResponse attaches the mirrored profile when one exists; a missing
// profile never fails the sign-in itself
func (h *AuthHandler) sessionResponse(c *gin.Context, session *store.AuthSession) SessionResponse {
	resp := SessionResponse{
		Token:     session.Token,
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}

	if user, err := h.userRepo.GetByID(c.Request.Context(), session.UserID); err == nil {
		resp.User = user
	}

	return resp
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
