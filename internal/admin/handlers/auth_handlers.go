package handlers

import (
	"net/http"

	"github.com/architect/rizal-quest/internal/admin/services"
	"github.com/architect/rizal-quest/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// Register creates a new learner account and seeds its curriculum
// POST /api/v1/auth/register
func Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := services.Register(&req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and issues a session token
// POST /api/v1/auth/login
func Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	token, user, err := services.Login(&req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout invalidates the current session token
// POST /api/v1/auth/logout
func Logout(c *gin.Context) {
	if err := services.Logout(middleware.SessionToken(c)); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
