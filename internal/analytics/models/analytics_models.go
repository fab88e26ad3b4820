package models

import (
	"time"
)

// Activity event types.
const (
	EventLevelStart    = "start"
	EventLevelComplete = "complete"
	EventInteraction   = "interaction"
)

// Difficulty tiers, derived from performance metrics.
const (
	DifficultyEasy     = "easy"
	DifficultyMedium   = "medium"
	DifficultyHard     = "hard"
	DifficultyVeryHard = "very_hard"
)

// Activity is an append-only log entry. It is the source of truth for
// analytics recomputation and may be pruned to a bounded window without
// touching the persisted UserStatistics.
type Activity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Type        string    `gorm:"not null" json:"type"` // start, complete, interaction
	ChapterID   int       `json:"chapter_id"`
	LevelID     int       `json:"level_id"`
	Score       int       `json:"score"`
	TimeSpentMs int       `json:"time_spent_ms"`
	Attempts    int       `json:"attempts"`
	HintsUsed   int       `json:"hints_used"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompletionMetrics are the per-completion inputs to the analytics engine.
type CompletionMetrics struct {
	Score       int `json:"score"`
	TimeSpentMs int `json:"time_spent_ms"`
	Attempts    int `json:"attempts"`
	HintsUsed   int `json:"hints_used"`
}

// TierPerformance buckets results per difficulty tier.
type TierPerformance struct {
	Attempts     int `json:"attempts"`
	TotalScore   int `json:"total_score"`
	AverageScore int `json:"average_score"`
}

// LearningPattern summarizes how a user plays. Derived from the activity log,
// never independently authored.
type LearningPattern struct {
	PreferredHour         int                         `json:"preferred_hour"`
	HourHistogram         map[int]int                 `json:"hour_histogram"`
	DifficultyPerformance map[string]*TierPerformance `json:"difficulty_performance"`
	AverageSessionMs      int                         `json:"average_session_ms"`
	ConsistencyScore      int                         `json:"consistency_score"`
	SurfacedAchievements  []string                    `json:"surfaced_achievements"`
}

// Recommendation priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is a personalized suggestion. All applicable rules fire.
type Recommendation struct {
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// ChapterReport scores one chapter for the progress report.
type ChapterReport struct {
	ChapterID       int     `json:"chapter_id"`
	Title           string  `json:"title"`
	CompletedLevels int     `json:"completed_levels"`
	CompletionRate  float64 `json:"completion_rate"`
	AverageScore    int     `json:"average_score"`
	Performance     string  `json:"performance"` // "excellent", "good", "fair", "needs_work"
}

// ReportSummary is the headline block of a progress report.
type ReportSummary struct {
	TotalLevelsCompleted int    `json:"total_levels_completed"`
	TotalScore           int    `json:"total_score"`
	AverageScore         int    `json:"average_score"`
	AverageEfficiency    int    `json:"average_efficiency"`
	CurrentStreak        int    `json:"current_streak"`
	LongestStreak        int    `json:"longest_streak"`
	TotalTimeSpent       string `json:"total_time_spent"`
}

// ProgressReport is the assembled read-only view served to presentation.
type ProgressReport struct {
	UserID          uint             `json:"user_id"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Summary         ReportSummary    `json:"summary"`
	Chapters        []*ChapterReport `json:"chapters"`
	Pattern         *LearningPattern `json:"pattern"`
	Recommendations []Recommendation `json:"recommendations"`
	Badges          []string         `json:"badges"`
	RecentActivity  []*Activity      `json:"recent_activity"`
}

// ExportBundle is the full user data export.
type ExportBundle struct {
	ExportedAt  time.Time   `json:"exported_at"`
	UserID      uint        `json:"user_id"`
	Statistics  interface{} `json:"statistics"`
	Completions interface{} `json:"completions"`
	Badges      interface{} `json:"badges"`
	Activities  []*Activity `json:"activities"`
}
