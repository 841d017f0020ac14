package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	appidentity "github.com/nantech/inventory/internal/application/identity"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
	"github.com/nantech/inventory/internal/interfaces/http/middleware"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Username string `json:"username" binding:"notblank,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// AuthUserResponse represents user data in auth responses
type AuthUserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	DivisionID *int64 `json:"division_id"`
	Role       string `json:"role"`
}

// UserData wraps the user in login and current-user responses
type UserData struct {
	User AuthUserResponse `json:"user"`
}

func toAuthUserResponse(u appidentity.UserInfo) AuthUserResponse {
	return AuthUserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		DivisionID: u.DivisionID,
		Role:       u.Role.String(),
	}
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	cookie      middleware.SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// Login authenticates the user and sets the session cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if middleware.ValidationMessage(err) != "" {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Username and password are required")
			return
		}
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Token)
	h.Success(c, UserData{User: toAuthUserResponse(result.User)})
}

// Logout revokes the current token and clears the cookie. It succeeds without a session.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := h.cookie.Read(c)

	input := appidentity.LogoutInput{Token: token}
	if session, ok := middleware.SessionFromContext(c); ok {
		input.UserID = session.SubjectID
	}
	h.authService.Logout(c.Request.Context(), input)

	h.cookie.Clear(c)
	h.Success(c, dto.MessageData{Message: "Logged out successfully"})
}

// Me returns the signed-in user.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), session.SubjectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, UserData{User: toAuthUserResponse(*user)})
}
