package services

import (
	"fmt"
	"time"

	"github.com/architect/rizal-quest/internal/analytics/models"
	"github.com/architect/rizal-quest/internal/analytics/repository"
	badgeRepo "github.com/architect/rizal-quest/internal/badges/repository"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/curriculum"
	progressRepo "github.com/architect/rizal-quest/internal/progress/repository"
)

// recentActivityLimit bounds the raw activity tail included in a report.
const recentActivityLimit = 20

// GenerateReport assembles statistics, badges and analytics into one
// progress report. Read-only; a user with zero activity gets a defaulted
// report, not an error.
func GenerateReport(userID uint) (*models.ProgressReport, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}

	stats, err := progressRepo.GetStatistics(database.DB, userID)
	if err != nil {
		return nil, err
	}

	records, err := progressRepo.ListCompletions(database.DB, userID)
	if err != nil {
		return nil, err
	}

	completions, err := repository.ListCompletions(database.DB, userID)
	if err != nil {
		return nil, err
	}

	badges, err := badgeRepo.ListBadgeTypes(database.DB, userID)
	if err != nil {
		return nil, err
	}

	recent, err := repository.ListActivities(database.DB, userID, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	// Per-chapter rollup from the authoritative completion records
	chapterScores := make(map[int]int)
	chapterCounts := make(map[int]int)
	for _, r := range records {
		if r.IsCompleted {
			chapterScores[r.ChapterID] += r.Score
			chapterCounts[r.ChapterID]++
		}
	}

	chapterAverages := make(map[int]int)
	chapters := make([]*models.ChapterReport, 0, curriculum.ChapterCount)
	for chapter := 1; chapter <= curriculum.ChapterCount; chapter++ {
		report := &models.ChapterReport{
			ChapterID: chapter,
			Title:     curriculum.ChapterTitles[chapter],
		}
		if count := chapterCounts[chapter]; count > 0 {
			report.CompletedLevels = count
			report.CompletionRate = float64(count) / curriculum.LevelsPerChapter * 100
			report.AverageScore = chapterScores[chapter] / count
			chapterAverages[chapter] = report.AverageScore
		}
		report.Performance = performanceTier(report.AverageScore, chapterCounts[chapter] > 0)
		chapters = append(chapters, report)
	}

	totalTimeMs := 0
	for _, a := range completions {
		totalTimeMs += a.TimeSpentMs
	}

	return &models.ProgressReport{
		UserID:      userID,
		GeneratedAt: time.Now(),
		Summary: models.ReportSummary{
			TotalLevelsCompleted: stats.TotalLevelsCompleted,
			TotalScore:           stats.TotalScore,
			AverageScore:         stats.AverageScore,
			AverageEfficiency:    AverageEfficiency(completions),
			CurrentStreak:        stats.CurrentStreak,
			LongestStreak:        stats.LongestStreak,
			TotalTimeSpent:       formatDuration(totalTimeMs),
		},
		Chapters:        chapters,
		Pattern:         BuildPattern(completions, stats, badges),
		Recommendations: Recommendations(stats, chapterAverages),
		Badges:          badges,
		RecentActivity:  recent,
	}, nil
}

// ExportUserData bundles everything the engine knows about a user.
func ExportUserData(userID uint) (*models.ExportBundle, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}

	stats, err := progressRepo.GetStatistics(database.DB, userID)
	if err != nil {
		return nil, err
	}

	records, err := progressRepo.ListCompletions(database.DB, userID)
	if err != nil {
		return nil, err
	}

	badges, err := badgeRepo.ListUserBadges(database.DB, userID)
	if err != nil {
		return nil, err
	}

	activities, err := repository.ListActivities(database.DB, userID, 0)
	if err != nil {
		return nil, err
	}

	return &models.ExportBundle{
		ExportedAt:  time.Now(),
		UserID:      userID,
		Statistics:  stats,
		Completions: records,
		Badges:      badges,
		Activities:  activities,
	}, nil
}

// performanceTier maps an average score onto the 90/80/70 thresholds.
func performanceTier(averageScore int, attempted bool) string {
	switch {
	case !attempted:
		return "not_started"
	case averageScore >= 90:
		return "excellent"
	case averageScore >= 80:
		return "good"
	case averageScore >= 70:
		return "fair"
	default:
		return "needs_work"
	}
}

func formatDuration(totalMs int) string {
	d := time.Duration(totalMs) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
