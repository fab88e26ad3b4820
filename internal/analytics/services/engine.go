package services

import (
	"fmt"
	"math"

	"github.com/architect/rizal-quest/internal/analytics/models"
	"github.com/architect/rizal-quest/internal/curriculum"
	progress "github.com/architect/rizal-quest/internal/progress/models"
)

// fullTimeBonusMs is the completion time under which the full speed bonus
// applies; the bonus decays linearly to zero at this threshold.
const fullTimeBonusMs = 300000 // 5 minutes

// EfficiencyScore blends score, speed and attempt count into a 0-100 metric:
// 60% score ratio, 20% time bonus, 20% attempt penalty.
func EfficiencyScore(m models.CompletionMetrics) int {
	scoreRatio := float64(m.Score) / 100

	timeBonus := 1 - float64(m.TimeSpentMs)/fullTimeBonusMs
	if timeBonus < 0 {
		timeBonus = 0
	}

	attempts := m.Attempts
	if attempts < 1 {
		attempts = 1
	}
	attemptPenalty := 1 - float64(attempts-1)*0.1
	if attemptPenalty < 0 {
		attemptPenalty = 0
	}

	return int(math.Round(100 * (0.6*scoreRatio + 0.2*timeBonus + 0.2*attemptPenalty)))
}

// AverageEfficiency is the mean efficiency over all completion events.
func AverageEfficiency(completions []*models.Activity) int {
	if len(completions) == 0 {
		return 0
	}

	total := 0
	for _, a := range completions {
		total += EfficiencyScore(models.CompletionMetrics{
			Score:       a.Score,
			TimeSpentMs: a.TimeSpentMs,
			Attempts:    a.Attempts,
			HintsUsed:   a.HintsUsed,
		})
	}
	return int(math.Round(float64(total) / float64(len(completions))))
}

// ClassifyDifficulty scores how hard a completion was for the learner from a
// weighted sum of score, attempts, time and hint usage.
func ClassifyDifficulty(m models.CompletionMetrics) string {
	weight := 0

	switch {
	case m.Score < 60:
		weight += 3
	case m.Score < 80:
		weight += 2
	case m.Score < 95:
		weight += 1
	}

	switch {
	case m.Attempts > 3:
		weight += 2
	case m.Attempts > 1:
		weight += 1
	}

	switch {
	case m.TimeSpentMs > 5*60*1000:
		weight += 2
	case m.TimeSpentMs > 2*60*1000:
		weight += 1
	}

	switch {
	case m.HintsUsed > 2:
		weight += 2
	case m.HintsUsed > 0:
		weight += 1
	}

	switch {
	case weight >= 6:
		return models.DifficultyVeryHard
	case weight >= 4:
		return models.DifficultyHard
	case weight >= 2:
		return models.DifficultyMedium
	default:
		return models.DifficultyEasy
	}
}

// ConsistencyScore combines streak and coverage, each capped at 50.
func ConsistencyScore(currentStreak, totalCompleted int) int {
	streakPart := currentStreak * 10
	if streakPart > 50 {
		streakPart = 50
	}

	coveragePart := int(float64(totalCompleted) / 25 * 50)
	if coveragePart > 50 {
		coveragePart = 50
	}

	return streakPart + coveragePart
}

// BuildPattern derives the learning-pattern summary from the completion
// events in the activity log.
func BuildPattern(completions []*models.Activity, stats *progress.UserStatistics, surfaced []string) *models.LearningPattern {
	pattern := &models.LearningPattern{
		PreferredHour:         -1,
		HourHistogram:         make(map[int]int),
		DifficultyPerformance: make(map[string]*models.TierPerformance),
		ConsistencyScore:      ConsistencyScore(stats.CurrentStreak, stats.TotalLevelsCompleted),
		SurfacedAchievements:  surfaced,
	}

	totalSessionMs := 0
	for _, a := range completions {
		hour := a.CreatedAt.Hour()
		pattern.HourHistogram[hour]++

		tier := ClassifyDifficulty(models.CompletionMetrics{
			Score:       a.Score,
			TimeSpentMs: a.TimeSpentMs,
			Attempts:    a.Attempts,
			HintsUsed:   a.HintsUsed,
		})
		perf := pattern.DifficultyPerformance[tier]
		if perf == nil {
			perf = &models.TierPerformance{}
			pattern.DifficultyPerformance[tier] = perf
		}
		perf.Attempts++
		perf.TotalScore += a.Score
		perf.AverageScore = perf.TotalScore / perf.Attempts

		totalSessionMs += a.TimeSpentMs
	}

	if len(completions) > 0 {
		pattern.AverageSessionMs = totalSessionMs / len(completions)
	}

	// Mode of the histogram; ties break toward the earliest hour of day
	best := -1
	for hour := 0; hour < 24; hour++ {
		if count := pattern.HourHistogram[hour]; count > best {
			best = count
			pattern.PreferredHour = hour
		}
	}
	if best <= 0 {
		pattern.PreferredHour = -1
	}

	return pattern
}

// Recommendations applies every matching suggestion rule, in rule order.
// chapterAverages holds per-chapter average scores for attempted chapters.
func Recommendations(stats *progress.UserStatistics, chapterAverages map[int]int) []models.Recommendation {
	recs := make([]models.Recommendation, 0)

	if stats.TotalLevelsCompleted > 0 && stats.AverageScore < 70 {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityHigh,
			Message:  "Your average score is below 70. Review the chapter facts before replaying levels.",
		})
	}

	if stats.CurrentStreak == 0 {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityMedium,
			Message:  "Start a streak! Complete at least one level today.",
		})
	} else if stats.CurrentStreak >= 7 {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityLow,
			Message:  fmt.Sprintf("You are on a %d-day streak. Keep it going!", stats.CurrentStreak),
		})
	}

	weakest := 0
	weakestAvg := curriculum.MaxScore + 1
	for chapter := 1; chapter <= curriculum.ChapterCount; chapter++ {
		if avg, attempted := chapterAverages[chapter]; attempted && avg < weakestAvg {
			weakest = chapter
			weakestAvg = avg
		}
	}
	if weakest > 0 && weakestAvg < 75 {
		recs = append(recs, models.Recommendation{
			Priority: models.PriorityMedium,
			Message:  fmt.Sprintf("Chapter %d (%s) is your weakest area. A review would help.", weakest, curriculum.ChapterTitles[weakest]),
		})
	}

	return recs
}
