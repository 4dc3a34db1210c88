package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestAssignmentHandlerRejectsBadUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &AssignmentHandler{}
	r.GET("/api/v1/users/:userId/roles", h.GetUserRoles)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid/roles", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHasPermissionRequiresModuleAndAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &AssignmentHandler{}
	r.GET("/api/v1/users/:userId/has-permission", h.HasPermission)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/has-permission?module=users", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
