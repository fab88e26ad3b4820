package models

import (
	"fmt"
	"time"
)

// Badge types. Stable identifiers, stored as-is.
const (
	TypeFirstLevelComplete = "first_level_complete"
	TypePerfectScore       = "perfect_score"
	TypeKnowledgeSeeker    = "knowledge_seeker"
	TypeDedication         = "dedication"
	TypeMarathonLearner    = "marathon_learner"
	TypeRizalExpert        = "rizal_expert"
)

// ChapterBadgeType returns the grant-once badge type for finishing a chapter.
func ChapterBadgeType(chapterID int) string {
	return fmt.Sprintf("chapter_%d_complete", chapterID)
}

// Badge is a grant-once achievement row keyed (user_id, badge_type).
// Never deleted except by an explicit progress reset.
type Badge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeType string    `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_type"`
	EarnedAt  time.Time `json:"earned_at"`
	CreatedAt time.Time `json:"created_at"`
}

// BadgeDefinition is the catalog entry describing a badge, seeded at boot.
type BadgeDefinition struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	BadgeType   string `gorm:"unique;not null" json:"badge_type"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Tier        string `json:"tier"` // "standard", "legendary", "ultimate"
}

// UserBadgeResponse pairs a grant with its catalog entry.
type UserBadgeResponse struct {
	BadgeType   string    `json:"badge_type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Tier        string    `json:"tier"`
	EarnedAt    time.Time `json:"earned_at"`
}
