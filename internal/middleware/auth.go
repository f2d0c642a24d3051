package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"projectms/internal/auth"
	"projectms/internal/authz"
	"projectms/internal/constants"
	apierrors "projectms/internal/errors"
)

// RequireAuth validates the bearer token and stores the actor identity
// in the request context.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// RequireAdmin rejects non-admin actors. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !actor.IsAdmin {
			apierrors.Forbidden(c, "Administrator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor retrieves the authenticated actor from the context.
func GetActor(c *gin.Context) (authz.Actor, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return authz.Actor{}, false
	}

	id, ok := userID.(uint64)
	if !ok {
		return authz.Actor{}, false
	}

	isAdmin, _ := c.Get(constants.ContextKeyIsAdmin)
	admin, _ := isAdmin.(bool)

	return authz.Actor{UserID: id, IsAdmin: admin}, true
}
