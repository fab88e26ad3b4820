package repository

import (
	"github.com/architect/rizal-quest/internal/analytics/models"
	"github.com/architect/rizal-quest/internal/common/errors"
	"gorm.io/gorm"
)

// ActivityWindow bounds how many log entries are kept per user. Statistics
// are persisted independently, so pruning never loses aggregate state.
const ActivityWindow = 500

// AppendActivity appends one entry to the activity log and prunes entries
// that fell out of the retention window.
func AppendActivity(db *gorm.DB, activity *models.Activity) error {
	result := db.Create(activity)
	if result.Error != nil {
		return errors.Storage("failed to append activity", result.Error.Error())
	}

	pruneActivities(db, activity.UserID)
	return nil
}

// pruneActivities drops everything older than the newest ActivityWindow
// entries. Pruning is best-effort; a failure leaves extra history behind.
func pruneActivities(db *gorm.DB, userID uint) {
	var cutoff models.Activity
	result := db.Where("user_id = ?", userID).
		Order("id DESC").
		Offset(ActivityWindow).
		First(&cutoff)
	if result.Error != nil {
		return
	}

	db.Where("user_id = ? AND id <= ?", userID, cutoff.ID).Delete(&models.Activity{})
}

// ListActivities returns a user's activity log, most recent first.
func ListActivities(db *gorm.DB, userID uint, limit int) ([]*models.Activity, error) {
	var activities []*models.Activity
	query := db.Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&activities)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch activities", result.Error.Error())
	}
	return activities, nil
}

// ListCompletions returns completion events only, oldest first, for engine
// recomputation.
func ListCompletions(db *gorm.DB, userID uint) ([]*models.Activity, error) {
	var activities []*models.Activity
	result := db.Where("user_id = ? AND type = ?", userID, models.EventLevelComplete).
		Order("created_at ASC, id ASC").
		Find(&activities)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch completion events", result.Error.Error())
	}
	return activities, nil
}

// DeleteActivities clears a user's activity log (progress reset).
func DeleteActivities(db *gorm.DB, userID uint) error {
	result := db.Where("user_id = ?", userID).Delete(&models.Activity{})
	if result.Error != nil {
		return errors.Storage("failed to delete activities", result.Error.Error())
	}
	return nil
}
