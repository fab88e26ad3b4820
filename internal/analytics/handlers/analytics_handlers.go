package handlers

import (
	"net/http"

	"github.com/architect/rizal-quest/internal/analytics/models"
	"github.com/architect/rizal-quest/internal/analytics/services"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// TrackEventRequest logs a play event from the client.
type TrackEventRequest struct {
	Type        string `json:"type" binding:"required,oneof=start complete interaction"`
	ChapterID   int    `json:"chapter_id" binding:"required,gte=1,lte=6"`
	LevelID     int    `json:"level_id" binding:"required,gte=1,lte=5"`
	Score       int    `json:"score" binding:"gte=0,lte=100"`
	TimeSpentMs int    `json:"time_spent_ms" binding:"gte=0"`
	Attempts    int    `json:"attempts" binding:"gte=0"`
	HintsUsed   int    `json:"hints_used" binding:"gte=0"`
	Detail      string `json:"detail"`
}

// TrackEvent appends one activity to the user's log
// POST /api/v1/analytics/events
func TrackEvent(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	tracker, err := services.NewTracker(database.DB, userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	switch req.Type {
	case models.EventLevelStart:
		err = tracker.TrackLevelStart(req.ChapterID, req.LevelID)
	case models.EventLevelComplete:
		err = tracker.TrackLevelComplete(req.ChapterID, req.LevelID, models.CompletionMetrics{
			Score:       req.Score,
			TimeSpentMs: req.TimeSpentMs,
			Attempts:    req.Attempts,
			HintsUsed:   req.HintsUsed,
		})
	default:
		err = tracker.TrackInteraction(req.ChapterID, req.LevelID, req.Detail)
	}
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tracked": true})
}

// GetReport returns the assembled progress report
// GET /api/v1/analytics/report
func GetReport(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	report, err := services.GenerateReport(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportData returns the full user data bundle
// GET /api/v1/analytics/export
func ExportData(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	bundle, err := services.ExportUserData(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=rizal-quest-export.json")
	c.JSON(http.StatusOK, bundle)
}
