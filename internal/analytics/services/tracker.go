package services

import (
	"github.com/architect/rizal-quest/internal/analytics/models"
	"github.com/architect/rizal-quest/internal/analytics/repository"
	"github.com/architect/rizal-quest/internal/common/errors"
	"gorm.io/gorm"
)

// Tracker records play events for one user session. It is constructed per
// session and passed explicitly; there is no shared module-level instance,
// so concurrent users never share mutable state.
type Tracker struct {
	db     *gorm.DB
	userID uint
}

// NewTracker creates a tracker bound to a user session.
func NewTracker(db *gorm.DB, userID uint) (*Tracker, error) {
	if userID == 0 {
		return nil, errors.BadRequest("invalid user ID")
	}
	return &Tracker{db: db, userID: userID}, nil
}

// TrackLevelStart logs the beginning of a level attempt.
func (t *Tracker) TrackLevelStart(chapterID, levelID int) error {
	return repository.AppendActivity(t.db, &models.Activity{
		UserID:    t.userID,
		Type:      models.EventLevelStart,
		ChapterID: chapterID,
		LevelID:   levelID,
	})
}

// TrackLevelComplete logs a finished level with its play metrics.
func (t *Tracker) TrackLevelComplete(chapterID, levelID int, m models.CompletionMetrics) error {
	return repository.AppendActivity(t.db, &models.Activity{
		UserID:      t.userID,
		Type:        models.EventLevelComplete,
		ChapterID:   chapterID,
		LevelID:     levelID,
		Score:       m.Score,
		TimeSpentMs: m.TimeSpentMs,
		Attempts:    m.Attempts,
		HintsUsed:   m.HintsUsed,
	})
}

// TrackInteraction logs a free-form interaction event.
func (t *Tracker) TrackInteraction(chapterID, levelID int, detail string) error {
	return repository.AppendActivity(t.db, &models.Activity{
		UserID:    t.userID,
		Type:      models.EventInteraction,
		ChapterID: chapterID,
		LevelID:   levelID,
		Detail:    detail,
	})
}
