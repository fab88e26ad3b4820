package handlers

import (
	"net/http"

	"github.com/architect/rizal-quest/internal/badges/repository"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/middleware"
	"github.com/gin-gonic/gin"
)

// GetCatalog returns every badge definition
// GET /api/v1/badges/catalog
func GetCatalog(c *gin.Context) {
	catalog, err := repository.GetCatalog(database.DB)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": catalog, "total": len(catalog)})
}

// GetUserBadges returns the authenticated user's earned badges
// GET /api/v1/badges
func GetUserBadges(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		middleware.JSONErrorResponse(c, nil)
		return
	}

	badges, err := repository.ListUserBadges(database.DB, userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "total": len(badges)})
}
