package handlers

import (
	"net/http"

	"rental-backend/internal/apperr"
	"rental-backend/internal/models"
	"rental-backend/internal/services"

	"github.com/gin-gonic/gin"
)

var errAdminSignupDisabled = apperr.Forbidden("admin accounts cannot be self-registered")

type AuthHandler struct {
	sessions    *services.Sessions
	audit       Auditor
	adminSignup bool
}

// NewAuthHandler builds the /auth handlers. adminSignup controls whether
// /auth/register honours role "admin".
func NewAuthHandler(sessions *services.Sessions, audit Auditor, adminSignup bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, audit: audit, adminSignup: adminSignup}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	if models.UserRole(req.Role) == models.RoleAdmin && !h.adminSignup {
		respondError(c, errAdminSignupDisabled)
		return
	}

	user, err := h.sessions.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), user.ID, "user", user.ID, "register", "registered "+user.Email)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.audit.Record(c.Request.Context(), "", "session", "", "login_failed", req.Email)
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), res.User.ID, "session", res.User.ID, "login", "")
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  res.AccessToken,
		"refreshToken": res.RefreshToken,
		"user":         res.User,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": res.AccessToken,
		"user":        res.User,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), id.ID); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), id.ID, "session", id.ID, "logout", "")
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
