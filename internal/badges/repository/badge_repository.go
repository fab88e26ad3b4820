package repository

import (
	"time"

	"github.com/architect/rizal-quest/internal/badges/models"
	"github.com/architect/rizal-quest/internal/common/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantBadge inserts a badge grant if absent. Re-granting is a no-op, never
// an error.
func GrantBadge(db *gorm.DB, userID uint, badgeType string) error {
	badge := models.Badge{
		UserID:    userID,
		BadgeType: badgeType,
		EarnedAt:  time.Now(),
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&badge)
	if result.Error != nil {
		return errors.Storage("failed to grant badge", result.Error.Error())
	}
	return nil
}

// ListBadgeTypes returns the badge types a user has earned, oldest first.
func ListBadgeTypes(db *gorm.DB, userID uint) ([]string, error) {
	var types []string
	result := db.Model(&models.Badge{}).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Pluck("badge_type", &types)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch badges", result.Error.Error())
	}
	return types, nil
}

// ListUserBadges returns a user's grants joined with catalog entries.
func ListUserBadges(db *gorm.DB, userID uint) ([]*models.UserBadgeResponse, error) {
	var badges []*models.UserBadgeResponse
	result := db.Model(&models.Badge{}).
		Select("badges.badge_type, badge_definitions.name, badge_definitions.description, badge_definitions.icon, badge_definitions.tier, badges.earned_at").
		Joins("LEFT JOIN badge_definitions ON badge_definitions.badge_type = badges.badge_type").
		Where("badges.user_id = ?", userID).
		Order("badges.earned_at ASC").
		Scan(&badges)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch user badges", result.Error.Error())
	}
	return badges, nil
}

// DeleteBadges removes every badge for a user (progress reset). Badges are
// re-earnable afterwards.
func DeleteBadges(db *gorm.DB, userID uint) error {
	result := db.Where("user_id = ?", userID).Delete(&models.Badge{})
	if result.Error != nil {
		return errors.Storage("failed to delete badges", result.Error.Error())
	}
	return nil
}

// GetCatalog returns all badge definitions.
func GetCatalog(db *gorm.DB) ([]*models.BadgeDefinition, error) {
	var defs []*models.BadgeDefinition
	result := db.Order("id ASC").Find(&defs)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch badge catalog", result.Error.Error())
	}
	return defs, nil
}

// SeedCatalog initializes the badge catalog. Existing entries are kept.
func SeedCatalog(db *gorm.DB) error {
	defs := []models.BadgeDefinition{
		{BadgeType: models.TypeFirstLevelComplete, Name: "First Step", Description: "Complete your first level", Icon: "footprints", Tier: "standard"},
		{BadgeType: models.ChapterBadgeType(1), Name: "Calamba Scholar", Description: "Complete every level of Early Life in Calamba", Icon: "house", Tier: "standard"},
		{BadgeType: models.ChapterBadgeType(2), Name: "Ateneo Graduate", Description: "Complete every level of Education and Studies", Icon: "graduation-cap", Tier: "standard"},
		{BadgeType: models.ChapterBadgeType(3), Name: "World Traveler", Description: "Complete every level of Travels Abroad", Icon: "globe", Tier: "standard"},
		{BadgeType: models.ChapterBadgeType(4), Name: "Noli Reader", Description: "Complete every level of Noli Me Tangere", Icon: "book-open", Tier: "standard"},
		{BadgeType: models.ChapterBadgeType(5), Name: "Reformist", Description: "Complete every level of El Filibusterismo and the Reform Movement", Icon: "feather", Tier: "standard"},
		{BadgeType: models.ChapterBadgeType(6), Name: "Hero's Witness", Description: "Complete every level of Exile and Martyrdom", Icon: "flame", Tier: "standard"},
		{BadgeType: models.TypePerfectScore, Name: "Perfect Score", Description: "Finish any level with a score of 100", Icon: "star", Tier: "standard"},
		{BadgeType: models.TypeKnowledgeSeeker, Name: "Knowledge Seeker", Description: "Complete 10 levels", Icon: "compass", Tier: "standard"},
		{BadgeType: models.TypeDedication, Name: "Dedication", Description: "Play 7 days in a row", Icon: "calendar", Tier: "standard"},
		{BadgeType: models.TypeMarathonLearner, Name: "Marathon Learner", Description: "Play 30 days in a row", Icon: "crown", Tier: "legendary"},
		{BadgeType: models.TypeRizalExpert, Name: "Rizal Expert", Description: "Complete all six chapters", Icon: "laurel", Tier: "ultimate"},
	}

	for _, def := range defs {
		result := db.FirstOrCreate(&def, models.BadgeDefinition{BadgeType: def.BadgeType})
		if result.Error != nil {
			return errors.Storage("failed to seed badge catalog", result.Error.Error())
		}
	}
	return nil
}
