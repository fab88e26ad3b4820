package services

import (
	"github.com/architect/rizal-quest/internal/badges/models"
	"github.com/architect/rizal-quest/internal/badges/repository"
	"github.com/architect/rizal-quest/internal/curriculum"
	progress "github.com/architect/rizal-quest/internal/progress/models"
	"gorm.io/gorm"
)

// CompletionMetrics carries the facts about the completion that triggered an
// evaluation pass.
type CompletionMetrics struct {
	ChapterID int
	LevelID   int
	Score     int
}

// Evaluate is a pure rule set mapping aggregate statistics to badge grants.
// It returns the badge types newly earned by this completion, in rule order.
// A single completion may earn several badges at once.
func Evaluate(stats *progress.UserStatistics, completedByChapter map[int]int, latest CompletionMetrics, earned map[string]bool) []string {
	newBadges := make([]string, 0)

	grant := func(badgeType string) {
		if !earned[badgeType] {
			earned[badgeType] = true
			newBadges = append(newBadges, badgeType)
		}
	}

	if stats.TotalLevelsCompleted >= 1 {
		grant(models.TypeFirstLevelComplete)
	}

	if completedByChapter[latest.ChapterID] >= curriculum.LevelsPerChapter {
		grant(models.ChapterBadgeType(latest.ChapterID))
	}

	if latest.Score == curriculum.MaxScore {
		grant(models.TypePerfectScore)
	}

	if stats.TotalLevelsCompleted >= 10 {
		grant(models.TypeKnowledgeSeeker)
	}

	if stats.CurrentStreak >= 7 {
		grant(models.TypeDedication)
	}

	if stats.CurrentStreak >= 30 {
		grant(models.TypeMarathonLearner)
	}

	allChapters := true
	for chapter := 1; chapter <= curriculum.ChapterCount; chapter++ {
		if completedByChapter[chapter] < curriculum.LevelsPerChapter {
			allChapters = false
			break
		}
	}
	if allChapters {
		grant(models.TypeRizalExpert)
	}

	return newBadges
}

// EvaluateAndGrant runs the rule set against current state and persists any
// new grants. Re-evaluating after a replayed completion grants nothing.
func EvaluateAndGrant(db *gorm.DB, stats *progress.UserStatistics, completedByChapter map[int]int, latest CompletionMetrics) ([]string, error) {
	earnedTypes, err := repository.ListBadgeTypes(db, stats.UserID)
	if err != nil {
		return nil, err
	}

	earned := make(map[string]bool, len(earnedTypes))
	for _, t := range earnedTypes {
		earned[t] = true
	}

	newBadges := Evaluate(stats, completedByChapter, latest, earned)
	for _, badgeType := range newBadges {
		if err := repository.GrantBadge(db, stats.UserID, badgeType); err != nil {
			return nil, err
		}
	}

	return newBadges, nil
}
