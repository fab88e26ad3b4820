package repository

import (
	stderrors "errors"
	"time"

	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/curriculum"
	"github.com/architect/rizal-quest/internal/progress/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCompletionRecords pre-creates all 30 (chapter, level) rows for a user,
// consulting the curriculum's unlock policy for the initial unlock state.
// Called at registration and at progress reset. Rows that already exist are
// left untouched, so reseeding is a no-op.
func SeedCompletionRecords(db *gorm.DB, userID uint) error {
	records := make([]models.CompletionRecord, 0, curriculum.TotalLevels)
	for chapter := 1; chapter <= curriculum.ChapterCount; chapter++ {
		for level := 1; level <= curriculum.LevelsPerChapter; level++ {
			records = append(records, models.CompletionRecord{
				UserID:     userID,
				ChapterID:  chapter,
				LevelID:    level,
				IsUnlocked: curriculum.DefaultPolicy.IsUnlocked(chapter, level, 0),
			})
		}
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records)
	if result.Error != nil {
		return errors.Storage("failed to seed completion records", result.Error.Error())
	}
	return nil
}

// UpsertCompletion records a level completion. Scores never regress: a repeat
// completion keeps max(existing, new). Safe to replay the same event.
func UpsertCompletion(db *gorm.DB, userID uint, chapterID, levelID, score int) (*models.UpsertResult, error) {
	var record models.CompletionRecord
	now := time.Now()

	result := db.Where("user_id = ? AND chapter_id = ? AND level_id = ?", userID, chapterID, levelID).
		First(&record)
	if result.Error != nil {
		if !stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Storage("failed to fetch completion record", result.Error.Error())
		}
		// First completion attempt before seeding happened for this key
		record = models.CompletionRecord{
			UserID:      userID,
			ChapterID:   chapterID,
			LevelID:     levelID,
			IsUnlocked:  true,
			IsCompleted: true,
			Score:       score,
			CompletedAt: &now,
		}
		if err := db.Create(&record).Error; err != nil {
			return nil, errors.Storage("failed to create completion record", err.Error())
		}
		return &models.UpsertResult{PreviousScore: 0, IsNewCompletion: true}, nil
	}

	previousScore := record.Score
	isNew := !record.IsCompleted

	record.IsCompleted = true
	if score > record.Score {
		record.Score = score
	}
	record.CompletedAt = &now

	if err := db.Save(&record).Error; err != nil {
		return nil, errors.Storage("failed to update completion record", err.Error())
	}

	return &models.UpsertResult{PreviousScore: previousScore, IsNewCompletion: isNew}, nil
}

// ListCompletions returns all completion records for a user in curriculum order.
func ListCompletions(db *gorm.DB, userID uint) ([]*models.CompletionRecord, error) {
	var records []*models.CompletionRecord
	result := db.Where("user_id = ?", userID).
		Order("chapter_id ASC, level_id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch completion records", result.Error.Error())
	}
	return records, nil
}

// CountCompletedByChapter returns completed-level counts keyed by chapter id.
func CountCompletedByChapter(db *gorm.DB, userID uint) (map[int]int, error) {
	type row struct {
		ChapterID int
		Count     int
	}
	var rows []row

	result := db.Model(&models.CompletionRecord{}).
		Select("chapter_id, COUNT(*) as count").
		Where("user_id = ? AND is_completed = ?", userID, true).
		Group("chapter_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, errors.Storage("failed to count completions", result.Error.Error())
	}

	counts := make(map[int]int, len(rows))
	for _, r := range rows {
		counts[r.ChapterID] = r.Count
	}
	return counts, nil
}

// DeleteCompletions removes every completion record for a user (progress reset).
func DeleteCompletions(db *gorm.DB, userID uint) error {
	result := db.Where("user_id = ?", userID).Delete(&models.CompletionRecord{})
	if result.Error != nil {
		return errors.Storage("failed to delete completion records", result.Error.Error())
	}
	return nil
}
