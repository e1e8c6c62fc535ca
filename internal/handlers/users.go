package handlers

import (
	"net/http"

	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *services.Users
	audit Auditor
}

func NewUserHandler(users *services.Users, audit Auditor) *UserHandler {
	return &UserHandler{users: users, audit: audit}
}

type updateUserRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=30"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user"`
}

func (r updateUserRequest) patch() services.UserPatch {
	p := services.UserPatch{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
	if r.Role != nil {
		role := models.UserRole(*r.Role)
		p.Role = &role
	}
	return p
}

func (h *UserHandler) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	h.get(c, id.ID)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	h.update(c, id, id.ID)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	h.delete(c, id, id.ID)
}

// List answers GET /users (admin).
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	h.get(c, c.Param("id"))
}

func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	h.update(c, actor, c.Param("id"))
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	h.delete(c, actor, c.Param("id"))
}

func (h *UserHandler) get(c *gin.Context, id string) {
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) update(c *gin.Context, actor middleware.Identity, id string) {
	var req updateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, req.patch(), actor.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "user", user.ID, "update", "")
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) delete(c *gin.Context, actor middleware.Identity, id string) {
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), actor.ID, "user", id, "delete", "")
	c.Status(http.StatusNoContent)
}
