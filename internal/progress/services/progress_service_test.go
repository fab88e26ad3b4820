package services

import (
	"fmt"
	"testing"
	"time"

	analyticsModels "github.com/architect/rizal-quest/internal/analytics/models"
	badgeModels "github.com/architect/rizal-quest/internal/badges/models"
	badgeRepo "github.com/architect/rizal-quest/internal/badges/repository"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/curriculum"
	"github.com/architect/rizal-quest/internal/progress/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&database.User{},
		&database.Session{},
		&models.CompletionRecord{},
		&models.UserStatistics{},
		&badgeModels.Badge{},
		&badgeModels.BadgeDefinition{},
		&analyticsModels.Activity{},
	))

	database.DB = db
}

func submit(t *testing.T, userID uint, chapter, level, score int) *models.SubmitCompletionResponse {
	t.Helper()
	resp, err := SubmitCompletion(userID, &models.SubmitCompletionRequest{
		ChapterID: chapter,
		LevelID:   level,
		Score:     &score,
	})
	require.NoError(t, err)
	return resp
}

func TestSubmitCompletion_FirstCompletion(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	score := 85
	resp, err := SubmitCompletion(1, &models.SubmitCompletionRequest{
		ChapterID: 1,
		LevelID:   1,
		Score:     &score,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{badgeModels.TypeFirstLevelComplete}, resp.NewBadges)
	assert.False(t, resp.ChapterComplete)
	assert.Equal(t, 1, resp.Statistics.TotalLevelsCompleted)
	assert.Equal(t, 85, resp.Statistics.TotalScore)
	assert.Equal(t, 85, resp.Statistics.AverageScore)
	assert.Equal(t, 1, resp.Statistics.CurrentStreak)
}

func TestSubmitCompletion_Idempotent(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	first := submit(t, 1, 1, 1, 85)
	second := submit(t, 1, 1, 1, 85)

	assert.Equal(t, first.Statistics.TotalLevelsCompleted, second.Statistics.TotalLevelsCompleted)
	assert.Equal(t, first.Statistics.TotalScore, second.Statistics.TotalScore)
	assert.Equal(t, first.Statistics.CurrentStreak, second.Statistics.CurrentStreak)

	// No duplicate badge on replay
	assert.Empty(t, second.NewBadges)

	badges, err := badgeRepo.ListBadgeTypes(database.DB, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{badgeModels.TypeFirstLevelComplete}, badges)
}

func TestSubmitCompletion_MonotonicScore(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	submit(t, 1, 2, 3, 90)
	resp := submit(t, 1, 2, 3, 60)

	assert.Equal(t, 90, resp.Statistics.TotalScore)
	assert.Equal(t, 90, resp.Statistics.AverageScore)
	assert.Equal(t, 1, resp.Statistics.TotalLevelsCompleted)
}

func TestSubmitCompletion_Validation(t *testing.T) {
	setupTestDB(t)

	bad := 150
	_, err := SubmitCompletion(1, &models.SubmitCompletionRequest{ChapterID: 1, LevelID: 1, Score: &bad})
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, err.(*errors.AppError).Code)

	ok := 50
	_, err = SubmitCompletion(1, &models.SubmitCompletionRequest{ChapterID: 9, LevelID: 1, Score: &ok})
	require.Error(t, err)
	assert.Equal(t, errors.CodeValidation, err.(*errors.AppError).Code)

	_, err = SubmitCompletion(0, &models.SubmitCompletionRequest{ChapterID: 1, LevelID: 1, Score: &ok})
	require.Error(t, err)
}

func TestSubmitCompletion_ChapterBadgeExactlyOnce(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	for level := 1; level <= 4; level++ {
		resp := submit(t, 1, 2, level, 80)
		assert.NotContains(t, resp.NewBadges, badgeModels.ChapterBadgeType(2))
		assert.False(t, resp.ChapterComplete)
	}

	resp := submit(t, 1, 2, 5, 80)
	assert.Contains(t, resp.NewBadges, badgeModels.ChapterBadgeType(2))
	assert.True(t, resp.ChapterComplete)

	// Resubmission of any level in the finished chapter grants nothing new
	resp = submit(t, 1, 2, 3, 80)
	assert.Empty(t, resp.NewBadges)
	assert.True(t, resp.ChapterComplete)
}

func TestSubmitCompletion_PerfectScoreBadge(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	resp := submit(t, 1, 3, 1, 100)
	assert.Contains(t, resp.NewBadges, badgeModels.TypePerfectScore)

	// Granted once, never again
	resp = submit(t, 1, 3, 2, 100)
	assert.NotContains(t, resp.NewBadges, badgeModels.TypePerfectScore)
}

func TestSubmitCompletion_KnowledgeSeeker(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	count := 0
	for chapter := 1; chapter <= 2; chapter++ {
		for level := 1; level <= 5; level++ {
			count++
			resp := submit(t, 1, chapter, level, 70)
			if count < 10 {
				assert.NotContains(t, resp.NewBadges, badgeModels.TypeKnowledgeSeeker)
			} else {
				assert.Contains(t, resp.NewBadges, badgeModels.TypeKnowledgeSeeker)
			}
		}
	}
}

func TestAdvanceStreak_ConsecutiveDays(t *testing.T) {
	stats := &models.UserStatistics{UserID: 1}
	day := time.Date(2025, 3, 10, 15, 0, 0, 0, time.Local)

	advanceStreak(stats, day)
	assert.Equal(t, 1, stats.CurrentStreak)

	advanceStreak(stats, day.AddDate(0, 0, 1))
	advanceStreak(stats, day.AddDate(0, 0, 2))
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)

	// Gap of two days resets the current streak, longest never decreases
	advanceStreak(stats, day.AddDate(0, 0, 4))
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
}

func TestAdvanceStreak_SameDayUnchanged(t *testing.T) {
	stats := &models.UserStatistics{UserID: 1}
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	evening := time.Date(2025, 3, 10, 22, 30, 0, 0, time.Local)

	advanceStreak(stats, morning)
	advanceStreak(stats, evening)

	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
}

func TestGetProgress_NewUser(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	progress, err := GetProgress(1)
	require.NoError(t, err)

	assert.Len(t, progress.Chapters, curriculum.ChapterCount)
	totalUnlocked := 0
	for _, ch := range progress.Chapters {
		totalUnlocked += ch.UnlockedLevels
		assert.Equal(t, 0, ch.CompletedLevels)
		assert.Empty(t, ch.Scores)
	}
	assert.Equal(t, curriculum.TotalLevels, totalUnlocked)
	assert.Equal(t, curriculum.TotalLevels, progress.Overall.TotalLevels)
	assert.Equal(t, 0, progress.Overall.CompletedLevels)
	assert.Empty(t, progress.Badges)
}

func TestGetProgress_ZeroActivityUserWithoutSeed(t *testing.T) {
	setupTestDB(t)

	// Never initialized, never played: still a defaulted view, not an error
	progress, err := GetProgress(42)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Overall.CompletedLevels)
	assert.Empty(t, progress.Badges)
}

func TestInitializeUser_Idempotent(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, InitializeUser(1))
	require.NoError(t, InitializeUser(1))

	var count int64
	database.DB.Model(&models.CompletionRecord{}).Where("user_id = ?", 1).Count(&count)
	assert.Equal(t, int64(curriculum.TotalLevels), count)
}

func TestResetProgress_BadgesReEarnable(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	submit(t, 1, 1, 1, 100)
	require.NoError(t, ResetProgress(1))

	progress, err := GetProgress(1)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Overall.CompletedLevels)
	assert.Empty(t, progress.Badges)

	stats, err := GetStatistics(1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalLevelsCompleted)

	// Earn the first-completion badge again after the reset
	resp := submit(t, 1, 1, 1, 90)
	assert.Contains(t, resp.NewBadges, badgeModels.TypeFirstLevelComplete)
}

func TestRecomputeStatistics_AverageRounding(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	submit(t, 1, 1, 1, 80)
	resp := submit(t, 1, 1, 2, 85)

	// (80+85)/2 = 82.5, integer-rounded
	assert.Equal(t, 83, resp.Statistics.AverageScore)
	assert.Equal(t, 165, resp.Statistics.TotalScore)
}

func TestGetStatistics_StorageFailureSurfaces(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = GetStatistics(1)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Status)
	assert.False(t, errors.IsNotFound(err))
}

func TestSubmitCompletion_StorageFailureSurfaces(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, InitializeUser(1))

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	score := 80
	_, err = SubmitCompletion(1, &models.SubmitCompletionRequest{
		ChapterID: 1,
		LevelID:   1,
		Score:     &score,
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Status)
}

// gatedPolicy unlocks only the first level of each chapter.
type gatedPolicy struct{}

func (gatedPolicy) IsUnlocked(chapterID, levelID int, completedInChapter int) bool {
	return levelID == 1
}

func TestInitializeUser_ConsultsUnlockPolicy(t *testing.T) {
	setupTestDB(t)

	orig := curriculum.DefaultPolicy
	curriculum.DefaultPolicy = gatedPolicy{}
	t.Cleanup(func() { curriculum.DefaultPolicy = orig })

	require.NoError(t, InitializeUser(1))

	var unlocked int64
	database.DB.Model(&models.CompletionRecord{}).
		Where("user_id = ? AND is_unlocked = ?", 1, true).Count(&unlocked)
	assert.Equal(t, int64(curriculum.ChapterCount), unlocked)

	var locked int64
	database.DB.Model(&models.CompletionRecord{}).
		Where("user_id = ? AND is_unlocked = ?", 1, false).Count(&locked)
	assert.Equal(t, int64(curriculum.TotalLevels-curriculum.ChapterCount), locked)
}
