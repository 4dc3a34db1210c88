package handler

import (
	"errors"
	"net/http"

	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// writeError translates domain failures into HTTP statuses. Anything
// unexpected is a plain 500 without internals leaking into the body.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrIllegalState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

// writeLoginError normalizes every login failure to 401 so responses never
// reveal whether the username existed or the password was wrong. Locked
// accounts are the one deliberate exception: their message carries the
// lockout expiry.
func writeLoginError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAccountLocked) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
}
