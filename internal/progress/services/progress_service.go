package services

import (
	"time"

	analyticsModels "github.com/architect/rizal-quest/internal/analytics/models"
	analyticsRepo "github.com/architect/rizal-quest/internal/analytics/repository"
	badgeRepo "github.com/architect/rizal-quest/internal/badges/repository"
	badgeServices "github.com/architect/rizal-quest/internal/badges/services"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/common/validation"
	"github.com/architect/rizal-quest/internal/curriculum"
	"github.com/architect/rizal-quest/internal/progress/models"
	"github.com/architect/rizal-quest/internal/progress/repository"
	"github.com/architect/rizal-quest/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitCompletion is the single mutating entry point of the engine: it
// records the completion, recomputes statistics, evaluates badges, and logs
// the activity. The completion upsert is the durable fact and commits first;
// statistics and badge grants then commit together so the acknowledged state
// is mutually consistent. Replaying the same event changes nothing.
func SubmitCompletion(userID uint, req *models.SubmitCompletionRequest) (*models.SubmitCompletionResponse, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}
	if err := validation.ValidateIntRange(req.ChapterID, 1, curriculum.ChapterCount); err != nil {
		return nil, errors.Validation("invalid chapter", err.Error())
	}
	if err := validation.ValidateIntRange(req.LevelID, 1, curriculum.LevelsPerChapter); err != nil {
		return nil, errors.Validation("invalid level", err.Error())
	}
	if req.Score == nil {
		return nil, errors.Validation("invalid score", "score is required")
	}
	if err := validation.ValidateScore(*req.Score); err != nil {
		return nil, errors.Validation("invalid score", err.Error())
	}
	score := *req.Score

	if _, err := repository.UpsertCompletion(database.DB, userID, req.ChapterID, req.LevelID, score); err != nil {
		return nil, err
	}

	var (
		stats     *models.UserStatistics
		newBadges []string
		byChapter map[int]int
	)

	// Derived state: safe to retry on failure, the completion row is already
	// committed above and the aggregator recomputes from scratch.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		stats, txErr = recomputeStatistics(tx, userID, time.Now())
		if txErr != nil {
			return txErr
		}

		byChapter, txErr = repository.CountCompletedByChapter(tx, userID)
		if txErr != nil {
			return txErr
		}

		newBadges, txErr = badgeServices.EvaluateAndGrant(tx, stats, byChapter, badgeServices.CompletionMetrics{
			ChapterID: req.ChapterID,
			LevelID:   req.LevelID,
			Score:     score,
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	// Refresh the analytics read model. Best-effort: the log is derivable
	// and must never block the acknowledged engine state.
	logErr := analyticsRepo.AppendActivity(database.DB, &analyticsModels.Activity{
		UserID:      userID,
		Type:        analyticsModels.EventLevelComplete,
		ChapterID:   req.ChapterID,
		LevelID:     req.LevelID,
		Score:       score,
		TimeSpentMs: req.TimeSpentMs,
		Attempts:    req.Attempts,
		HintsUsed:   req.HintsUsed,
	})
	if logErr != nil {
		logger.Warn("activity log append failed",
			zap.Uint("user_id", userID),
			zap.Error(logErr),
		)
	}

	if len(newBadges) > 0 {
		logger.Info("badges earned",
			zap.Uint("user_id", userID),
			zap.Strings("badges", newBadges),
		)
	}

	return &models.SubmitCompletionResponse{
		NewBadges:       newBadges,
		ChapterComplete: byChapter[req.ChapterID] >= curriculum.LevelsPerChapter,
		Statistics:      stats,
	}, nil
}

// recomputeStatistics rebuilds the aggregate row from completion records and
// advances the daily streak. Full recompute keeps the row correct even after
// a previously failed aggregation pass.
func recomputeStatistics(db *gorm.DB, userID uint, now time.Time) (*models.UserStatistics, error) {
	records, err := repository.ListCompletions(db, userID)
	if err != nil {
		return nil, err
	}

	stats, err := repository.GetStatistics(db, userID)
	if err != nil {
		return nil, err
	}

	completed := 0
	totalScore := 0
	for _, r := range records {
		if r.IsCompleted {
			completed++
			totalScore += r.Score
		}
	}

	stats.TotalLevelsCompleted = completed
	stats.TotalScore = totalScore
	if completed > 0 {
		stats.AverageScore = (totalScore + completed/2) / completed
	} else {
		stats.AverageScore = 0
	}

	advanceStreak(stats, now)

	if err := repository.SaveStatistics(db, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// advanceStreak applies the day-granularity streak rule: same day keeps the
// streak, yesterday extends it, anything else resets it to 1.
func advanceStreak(stats *models.UserStatistics, now time.Time) {
	today := dateOf(now)

	switch {
	case stats.LastPlayedDate != nil && dateOf(*stats.LastPlayedDate).Equal(today):
		// Already counted for today
	case stats.LastPlayedDate != nil && dateOf(*stats.LastPlayedDate).Equal(today.AddDate(0, 0, -1)):
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastPlayedDate = &today
}

// dateOf truncates a timestamp to its local day boundary.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GetStatistics returns the persisted aggregate row, zeroed for new users.
func GetStatistics(userID uint) (*models.UserStatistics, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}
	return repository.GetStatistics(database.DB, userID)
}

// GetProgress assembles the per-chapter and overall progress view. A user
// with zero activity gets the seeded all-unlocked shape, never an error.
func GetProgress(userID uint) (*models.ProgressResponse, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}

	records, err := repository.ListCompletions(database.DB, userID)
	if err != nil {
		return nil, err
	}

	chapters := make(map[int]*models.ChapterProgress, curriculum.ChapterCount)
	for chapter := 1; chapter <= curriculum.ChapterCount; chapter++ {
		chapters[chapter] = &models.ChapterProgress{
			ChapterID: chapter,
			Title:     curriculum.ChapterTitles[chapter],
			Scores:    make(map[int]int),
		}
	}

	overall := models.OverallProgress{TotalLevels: curriculum.TotalLevels}
	for _, r := range records {
		ch, ok := chapters[r.ChapterID]
		if !ok {
			continue
		}
		if r.IsUnlocked {
			ch.UnlockedLevels++
		}
		if r.IsCompleted {
			ch.CompletedLevels++
			ch.Scores[r.LevelID] = r.Score
			overall.CompletedLevels++
			overall.TotalScore += r.Score
		}
	}

	badges, err := badgeRepo.ListBadgeTypes(database.DB, userID)
	if err != nil {
		return nil, err
	}

	return &models.ProgressResponse{
		Chapters: chapters,
		Overall:  overall,
		Badges:   badges,
	}, nil
}

// InitializeUser seeds the 30 completion records for a freshly registered
// account. Idempotent.
func InitializeUser(userID uint) error {
	if userID == 0 {
		return errors.BadRequest("invalid user ID")
	}
	return repository.SeedCompletionRecords(database.DB, userID)
}

// ResetProgress wipes a user's completions, statistics, badges and activity
// log, then reseeds the curriculum. Badges become re-earnable.
func ResetProgress(userID uint) error {
	if userID == 0 {
		return errors.BadRequest("invalid user ID")
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := repository.DeleteCompletions(tx, userID); err != nil {
			return err
		}
		if err := repository.DeleteStatistics(tx, userID); err != nil {
			return err
		}
		if err := badgeRepo.DeleteBadges(tx, userID); err != nil {
			return err
		}
		if err := analyticsRepo.DeleteActivities(tx, userID); err != nil {
			return err
		}
		return repository.SeedCompletionRecords(tx, userID)
	})
}
