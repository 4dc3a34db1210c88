package handler

import (
	"net/http"
	"strings"

	"github.com/authstack/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const authUserKey = "auth_user"

// AuthUser is the identity a validated bearer token resolves to.
type AuthUser struct {
	ID       uuid.UUID
	Username string
	Roles    []string
}

// AuthMiddleware rejects requests without a valid, unrevoked access token.
func AuthMiddleware(auth *service.AuthService, tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" || !auth.ValidateToken(c.Request.Context(), token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, ok := tokens.Decode(token)
		if !ok || claims.Type != service.TokenTypeAccess {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(authUserKey, &AuthUser{
			ID:       userID,
			Username: claims.Subject,
			Roles:    claims.Roles,
		})
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*AuthUser); ok {
			return user
		}
	}
	return nil
}

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
