package middleware

import (
	"strings"
	"time"

	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/gin-gonic/gin"
)

// CurrentUserID extracts the authenticated user id from the request context.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// AuthRequired validates the session token and loads the user into context.
// Tokens are accepted from the session cookie or a bearer Authorization header.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			abortWith(c, errors.Unauthorized("missing or invalid authentication"))
			return
		}

		var session database.Session
		result := database.DB.Preload("User").Where("session_token = ?", token).First(&session)
		if result.Error != nil || session.User == nil {
			abortWith(c, errors.Unauthorized("missing or invalid authentication"))
			return
		}

		if time.Now().After(session.ExpiresAt) {
			abortWith(c, errors.Unauthorized("session expired"))
			return
		}

		// Deactivated accounts keep their records but cannot start new work
		if !session.User.IsActive {
			abortWith(c, errors.Forbidden("account is deactivated"))
			return
		}

		database.DB.Model(&session).Update("last_activity", time.Now())

		c.Set("user_id", session.UserID)
		c.Set("is_admin", session.User.IsAdmin)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired and rejects non-admin users.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || isAdmin != true {
			abortWith(c, errors.Forbidden("admin privileges required"))
			return
		}
		c.Next()
	}
}

// SessionToken extracts the session token from the session cookie or a bearer
// Authorization header. Every endpoint that consumes tokens goes through this
// so cookie and bearer clients behave identically.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie("session_id"); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func abortWith(c *gin.Context, appErr *errors.AppError) {
	c.JSON(appErr.Status, appErr)
	c.Abort()
}
