package handlers

import (
	"net/http"

	"github.com/architect/rizal-quest/internal/common/middleware"
	"github.com/architect/rizal-quest/internal/progress/models"
	"github.com/architect/rizal-quest/internal/progress/services"
	"github.com/gin-gonic/gin"
)

// SubmitCompletion handles a learner finishing a level
// POST /api/v1/progress/complete
func SubmitCompletion(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	var req models.SubmitCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	response, err := services.SubmitCompletion(userID, &req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetProgress returns the per-chapter and overall progress view
// GET /api/v1/progress
func GetProgress(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	progress, err := services.GetProgress(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetStatistics returns the persisted aggregate statistics row
// GET /api/v1/progress/statistics
func GetStatistics(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	stats, err := services.GetStatistics(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
