package handler

import (
	"context"
	"net/http"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body model.UserRequest true "User"
// @Success 201 {object} model.UserResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req model.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user.ToResponse())
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponses(users))
}

func (h *UserHandler) ListByStatus(c *gin.Context) {
	users, err := h.svc.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponses(users))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	user, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// Exists answers with a bare boolean so callers can check availability
// without tripping a 404.
func (h *UserHandler) Exists(c *gin.Context) {
	taken, err := h.svc.Exists(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taken)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	var req model.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// Delete deactivates the account.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore reactivates a deactivated account.
func (h *UserHandler) Restore(c *gin.Context) {
	h.lifecycle(c, h.svc.Restore)
}

// Suspend takes an account out of service until an administrator restores it.
func (h *UserHandler) Suspend(c *gin.Context) {
	h.lifecycle(c, h.svc.Suspend)
}

// Block suspends the account behind a lockout window.
func (h *UserHandler) Block(c *gin.Context) {
	h.lifecycle(c, h.svc.Block)
}

// Unblock clears the lockout window and failure counter so the account
// can log in again right away.
func (h *UserHandler) Unblock(c *gin.Context) {
	h.lifecycle(c, h.svc.Unblock)
}

func (h *UserHandler) lifecycle(c *gin.Context, op func(context.Context, uuid.UUID) (*model.User, error)) {
	id, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	user, err := op(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

func userResponses(users []*model.User) []model.UserResponse {
	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses
}
