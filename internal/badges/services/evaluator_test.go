package services

import (
	"testing"

	"github.com/architect/rizal-quest/internal/badges/models"
	progress "github.com/architect/rizal-quest/internal/progress/models"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate_FirstCompletion(t *testing.T) {
	stats := &progress.UserStatistics{UserID: 1, TotalLevelsCompleted: 1, CurrentStreak: 1}
	byChapter := map[int]int{1: 1}

	granted := Evaluate(stats, byChapter, CompletionMetrics{ChapterID: 1, LevelID: 1, Score: 70}, map[string]bool{})

	assert.Equal(t, []string{models.TypeFirstLevelComplete}, granted)
}

func TestEvaluate_MultipleGrantsInOnePass(t *testing.T) {
	// Finishing chapter 1's last level with a perfect score on a 7-day streak
	stats := &progress.UserStatistics{UserID: 1, TotalLevelsCompleted: 5, CurrentStreak: 7}
	byChapter := map[int]int{1: 5}
	earned := map[string]bool{models.TypeFirstLevelComplete: true}

	granted := Evaluate(stats, byChapter, CompletionMetrics{ChapterID: 1, LevelID: 5, Score: 100}, earned)

	assert.Contains(t, granted, models.ChapterBadgeType(1))
	assert.Contains(t, granted, models.TypePerfectScore)
	assert.Contains(t, granted, models.TypeDedication)
	assert.NotContains(t, granted, models.TypeFirstLevelComplete)
}

func TestEvaluate_AlreadyEarnedIsNoOp(t *testing.T) {
	stats := &progress.UserStatistics{UserID: 1, TotalLevelsCompleted: 5, CurrentStreak: 7}
	byChapter := map[int]int{1: 5}
	earned := map[string]bool{
		models.TypeFirstLevelComplete: true,
		models.ChapterBadgeType(1):    true,
		models.TypePerfectScore:       true,
		models.TypeDedication:         true,
	}

	granted := Evaluate(stats, byChapter, CompletionMetrics{ChapterID: 1, LevelID: 5, Score: 100}, earned)

	assert.Empty(t, granted)
}

func TestEvaluate_StreakTiers(t *testing.T) {
	stats := &progress.UserStatistics{UserID: 1, TotalLevelsCompleted: 3, CurrentStreak: 30}
	byChapter := map[int]int{1: 3}
	earned := map[string]bool{models.TypeFirstLevelComplete: true}

	granted := Evaluate(stats, byChapter, CompletionMetrics{ChapterID: 1, LevelID: 3, Score: 80}, earned)

	assert.Contains(t, granted, models.TypeDedication)
	assert.Contains(t, granted, models.TypeMarathonLearner)
}

func TestEvaluate_RizalExpert(t *testing.T) {
	stats := &progress.UserStatistics{UserID: 1, TotalLevelsCompleted: 30, CurrentStreak: 2}
	byChapter := map[int]int{1: 5, 2: 5, 3: 5, 4: 5, 5: 5, 6: 5}
	earned := map[string]bool{
		models.TypeFirstLevelComplete: true,
		models.TypeKnowledgeSeeker:    true,
	}

	granted := Evaluate(stats, byChapter, CompletionMetrics{ChapterID: 6, LevelID: 5, Score: 90}, earned)

	assert.Contains(t, granted, models.ChapterBadgeType(6))
	assert.Contains(t, granted, models.TypeRizalExpert)
}

func TestEvaluate_IncompleteCurriculumNoExpert(t *testing.T) {
	stats := &progress.UserStatistics{UserID: 1, TotalLevelsCompleted: 29, CurrentStreak: 1}
	byChapter := map[int]int{1: 5, 2: 5, 3: 5, 4: 5, 5: 5, 6: 4}
	earned := map[string]bool{models.TypeFirstLevelComplete: true, models.TypeKnowledgeSeeker: true}

	granted := Evaluate(stats, byChapter, CompletionMetrics{ChapterID: 6, LevelID: 4, Score: 90}, earned)

	assert.NotContains(t, granted, models.TypeRizalExpert)
}
