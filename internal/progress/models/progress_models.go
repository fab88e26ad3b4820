package models

import (
	"time"
)

// CompletionRecord is the durable per-(user, chapter, level) progress row.
// One row per key; seeded unlocked and uncompleted at registration.
type CompletionRecord struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_chapter_level" json:"user_id"`
	ChapterID   int        `gorm:"not null;uniqueIndex:idx_user_chapter_level" json:"chapter_id"`
	LevelID     int        `gorm:"not null;uniqueIndex:idx_user_chapter_level" json:"level_id"`
	IsUnlocked  bool       `gorm:"default:true" json:"is_unlocked"`
	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	Score       int        `gorm:"default:0" json:"score"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserStatistics is derived state, recomputed by the aggregator after every
// completion. Never hand-edited.
type UserStatistics struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"unique;not null" json:"user_id"`
	TotalLevelsCompleted int        `gorm:"default:0" json:"total_levels_completed"`
	TotalScore           int        `gorm:"default:0" json:"total_score"`
	AverageScore         int        `gorm:"default:0" json:"average_score"`
	CurrentStreak        int        `gorm:"default:0" json:"current_streak"`
	LongestStreak        int        `gorm:"default:0" json:"longest_streak"`
	LastPlayedDate       *time.Time `json:"last_played_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// UpsertResult reports what a completion upsert changed.
type UpsertResult struct {
	PreviousScore   int  `json:"previous_score"`
	IsNewCompletion bool `json:"is_new_completion"`
}

// ========== REQUEST/RESPONSE TYPES ==========

// SubmitCompletionRequest is the single mutating entry point of the engine.
type SubmitCompletionRequest struct {
	ChapterID   int  `json:"chapter_id" binding:"required,gte=1,lte=6"`
	LevelID     int  `json:"level_id" binding:"required,gte=1,lte=5"`
	Score       *int `json:"score" binding:"required,gte=0,lte=100"`
	TimeSpentMs int  `json:"time_spent_ms" binding:"gte=0"`
	Attempts    int  `json:"attempts" binding:"gte=0"`
	HintsUsed   int  `json:"hints_used" binding:"gte=0"`
}

// SubmitCompletionResponse acknowledges a completion event.
type SubmitCompletionResponse struct {
	NewBadges       []string        `json:"new_badges"`
	ChapterComplete bool            `json:"chapter_complete"`
	Statistics      *UserStatistics `json:"statistics"`
}

// ChapterProgress summarizes one chapter for the progress view.
type ChapterProgress struct {
	ChapterID       int         `json:"chapter_id"`
	Title           string      `json:"title"`
	UnlockedLevels  int         `json:"unlocked_levels"`
	CompletedLevels int         `json:"completed_levels"`
	Scores          map[int]int `json:"scores"`
}

// OverallProgress summarizes the whole curriculum.
type OverallProgress struct {
	TotalLevels     int `json:"total_levels"`
	CompletedLevels int `json:"completed_levels"`
	TotalScore      int `json:"total_score"`
}

// ProgressResponse is the read model returned by GetProgress.
type ProgressResponse struct {
	Chapters map[int]*ChapterProgress `json:"chapters"`
	Overall  OverallProgress          `json:"overall"`
	Badges   []string                 `json:"badges"`
}
