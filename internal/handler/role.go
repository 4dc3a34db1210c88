package handler

import (
	"net/http"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	svc *service.RoleService
}

func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req model.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	role, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role.ToResponse())
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roleResponses(roles))
}

func (h *RoleHandler) ListActive(c *gin.Context) {
	roles, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roleResponses(roles))
}

func (h *RoleHandler) ListInactive(c *gin.Context) {
	roles, err := h.svc.ListInactive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, roleResponses(roles))
}

func (h *RoleHandler) GetByName(c *gin.Context) {
	role, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, role.ToResponse())
}

// Exists answers with a bare boolean so callers can check availability
// without tripping a 404.
func (h *RoleHandler) Exists(c *gin.Context) {
	taken, err := h.svc.Exists(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taken)
}

func (h *RoleHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	role, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, role.ToResponse())
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	var req model.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	role, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, role.ToResponse())
}

// Delete deactivates a role; system roles are refused.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore reactivates a soft-deleted role.
func (h *RoleHandler) Restore(c *gin.Context) {
	id, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	role, err := h.svc.Restore(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, role.ToResponse())
}

func roleResponses(roles []*model.Role) []model.RoleResponse {
	responses := make([]model.RoleResponse, 0, len(roles))
	for _, r := range roles {
		responses = append(responses, r.ToResponse())
	}
	return responses
}
