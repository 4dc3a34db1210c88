package handler

import (
	"net/http"

	"github.com/authstack/backend/internal/model"
	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AssignmentHandler struct {
	svc *service.AssignmentService
}

func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

// GetUserRoles godoc
// @Summary List roles assigned to a user
// @Tags assignments
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} model.UserRoleResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{userId}/roles [get]
func (h *AssignmentHandler) GetUserRoles(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	details, err := h.svc.GetUserRoles(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userRoleResponses(details))
}

// AssignRole godoc
// @Summary Assign a role to a user
// @Tags assignments
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body model.AssignRoleRequest true "Role assignment"
// @Success 201 {object} model.UserRoleResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/users/{userId}/roles [post]
func (h *AssignmentHandler) AssignRole(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	var req model.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	detail, err := h.svc.AssignRoleToUser(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userRoleResponse(detail))
}

// RemoveRole godoc
// @Summary Remove a role from a user
// @Tags assignments
// @Param userId path string true "User ID"
// @Param roleId path string true "Role ID"
// @Success 204
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/users/{userId}/roles/{roleId} [delete]
func (h *AssignmentHandler) RemoveRole(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	roleID, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	if err := h.svc.RemoveRoleFromUser(c.Request.Context(), userID, roleID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssignmentHandler) GetRoleUsers(c *gin.Context) {
	roleID, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	details, err := h.svc.GetRoleUsers(c.Request.Context(), roleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userRoleResponses(details))
}

func (h *AssignmentHandler) GetRolePermissions(c *gin.Context) {
	roleID, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	details, err := h.svc.GetRolePermissions(c.Request.Context(), roleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rolePermissionResponses(details))
}

// AssignPermission godoc
// @Summary Grant a permission to a role
// @Tags assignments
// @Accept json
// @Produce json
// @Param roleId path string true "Role ID"
// @Param request body model.AssignPermissionRequest true "Permission grant"
// @Success 201 {object} model.RolePermissionResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Router /api/v1/roles/{roleId}/permissions [post]
func (h *AssignmentHandler) AssignPermission(c *gin.Context) {
	roleID, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	var req model.AssignPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	detail, err := h.svc.AssignPermissionToRole(c.Request.Context(), roleID, req.PermissionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rolePermissionResponse(detail))
}

func (h *AssignmentHandler) RemovePermission(c *gin.Context) {
	roleID, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	permissionID, ok := pathUUID(c, "permissionId")
	if !ok {
		return
	}
	if err := h.svc.RemovePermissionFromRole(c.Request.Context(), roleID, permissionID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EffectivePermissions godoc
// @Summary List the permissions a user effectively holds
// @Tags assignments
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} model.PermissionResponse
// @Router /api/v1/users/{userId}/effective-permissions [get]
func (h *AssignmentHandler) EffectivePermissions(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	perms, err := h.svc.GetUserEffectivePermissions(c.Request.Context(), userID)
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

func (h *AssignmentHandler) HasPermission(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	module := c.Query("module")
	action := c.Query("action")
	if module == "" || action == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "module and action are required"})
		return
	}
	var resource *string
	if value, present := c.GetQuery("resource"); present {
		resource = &value
	}
	has, err := h.svc.UserHasPermission(c.Request.Context(), userID, module, action, resource)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.HasPermissionResponse{HasPermission: has})
}

func (h *AssignmentHandler) HasRole(c *gin.Context) {
	userID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	roleID, ok := pathUUID(c, "roleId")
	if !ok {
		return
	}
	has, err := h.svc.UserHasRole(c.Request.Context(), userID, roleID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.HasRoleResponse{HasRole: has})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func userRoleResponse(d *model.UserRoleDetail) model.UserRoleResponse {
	return model.UserRoleResponse{
		UserID:         d.UserID,
		Username:       d.Username,
		RoleID:         d.RoleID,
		RoleName:       d.RoleName,
		AssignedBy:     d.AssignedBy,
		AssignedAt:     d.AssignedAt,
		ExpirationDate: d.ExpirationDate,
		Active:         d.Active,
	}
}

func userRoleResponses(details []*model.UserRoleDetail) []model.UserRoleResponse {
	responses := make([]model.UserRoleResponse, 0, len(details))
	for _, d := range details {
		responses = append(responses, userRoleResponse(d))
	}
	return responses
}

func rolePermissionResponse(d *model.RolePermissionDetail) model.RolePermissionResponse {
	return model.RolePermissionResponse{
		RoleID:       d.RoleID,
		RoleName:     d.RoleName,
		PermissionID: d.PermissionID,
		Module:       d.Permission.Module,
		Action:       d.Permission.Action,
		Resource:     d.Permission.Resource,
		Description:  d.Permission.Description,
		CreatedAt:    d.CreatedAt,
	}
}

func rolePermissionResponses(details []*model.RolePermissionDetail) []model.RolePermissionResponse {
	responses := make([]model.RolePermissionResponse, 0, len(details))
	for _, d := range details {
		responses = append(responses, rolePermissionResponse(d))
	}
	return responses
}
