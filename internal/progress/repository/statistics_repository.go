package repository

import (
	stderrors "errors"

	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/progress/models"
	"gorm.io/gorm"
)

// GetStatistics retrieves a user's statistics row, returning a zeroed record
// for users who have never completed anything. Only a missing row defaults;
// storage failures surface so callers never serve fabricated zeros.
func GetStatistics(db *gorm.DB, userID uint) (*models.UserStatistics, error) {
	var stats models.UserStatistics
	result := db.Where("user_id = ?", userID).First(&stats)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return &models.UserStatistics{UserID: userID}, nil
		}
		return nil, errors.Storage("failed to fetch statistics", result.Error.Error())
	}
	return &stats, nil
}

// SaveStatistics persists the recomputed statistics row.
func SaveStatistics(db *gorm.DB, stats *models.UserStatistics) error {
	result := db.Save(stats)
	if result.Error != nil {
		return errors.Storage("failed to save statistics", result.Error.Error())
	}
	return nil
}

// DeleteStatistics removes a user's statistics row (progress reset).
func DeleteStatistics(db *gorm.DB, userID uint) error {
	result := db.Where("user_id = ?", userID).Delete(&models.UserStatistics{})
	if result.Error != nil {
		return errors.Storage("failed to delete statistics", result.Error.Error())
	}
	return nil
}
