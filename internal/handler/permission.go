package handler

import (
	"net/http"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	svc *service.PermissionService
}

func NewPermissionHandler(svc *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{svc: svc}
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req model.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	perm, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, perm.ToResponse())
}

func (h *PermissionHandler) List(c *gin.Context) {
	var (
		perms []*model.Permission
		err   error
	)
	if module := c.Query("module"); module != "" {
		perms, err = h.svc.ListByModule(c.Request.Context(), module)
	} else {
		perms, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}
	responses := make([]model.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		responses = append(responses, p.ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

func (h *PermissionHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "permissionId")
	if !ok {
		return
	}
	perm, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm.ToResponse())
}

func (h *PermissionHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "permissionId")
	if !ok {
		return
	}
	var req model.PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	perm, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, perm.ToResponse())
}

func (h *PermissionHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "permissionId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
