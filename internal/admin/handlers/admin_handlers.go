package handlers

import (
	"net/http"
	"strconv"

	"github.com/architect/rizal-quest/internal/admin/services"
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

type setFlagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

func pathUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.BadRequest("invalid user ID")
	}
	return uint(id), nil
}

// ListUsers returns all accounts
// GET /api/v1/admin/users
func ListUsers(c *gin.Context) {
	users, err := services.ListUsers()
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// GetUserDetail returns one account with its progress read model
// GET /api/v1/admin/users/:id
func GetUserDetail(c *gin.Context) {
	userID, err := pathUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	detail, err := services.GetUserDetail(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// SetActive toggles an account's active flag
// PUT /api/v1/admin/users/:id/active
func SetActive(c *gin.Context) {
	userID, err := pathUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	var req setFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := services.SetActive(userID, *req.Value)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetAdmin toggles an account's admin flag
// PUT /api/v1/admin/users/:id/admin
func SetAdmin(c *gin.Context) {
	userID, err := pathUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	var req setFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := services.SetAdmin(userID, *req.Value)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ResetUserProgress wipes and reseeds a user's progress ledger
// POST /api/v1/admin/users/:id/reset
func ResetUserProgress(c *gin.Context) {
	userID, err := pathUserID(c)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	if err := services.ResetUserProgress(userID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "progress reset successfully"})
}
