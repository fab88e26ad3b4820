package services

import (
	"fmt"
	"testing"
	"time"

	analyticsModels "github.com/architect/rizal-quest/internal/analytics/models"
	badgeModels "github.com/architect/rizal-quest/internal/badges/models"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	"github.com/architect/rizal-quest/internal/curriculum"
	progressModels "github.com/architect/rizal-quest/internal/progress/models"
	progressServices "github.com/architect/rizal-quest/internal/progress/services"
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
		&progressModels.CompletionRecord{},
		&progressModels.UserStatistics{},
		&badgeModels.Badge{},
		&badgeModels.BadgeDefinition{},
		&analyticsModels.Activity{},
	))

	database.DB = db
}

func registerTestUser(t *testing.T, username string) *database.User {
	t.Helper()
	user, err := Register(&RegisterRequest{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "correct-horse",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_SeedsCurriculum(t *testing.T) {
	setupTestDB(t)

	user := registerTestUser(t, "maria")
	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	var count int64
	database.DB.Model(&progressModels.CompletionRecord{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(curriculum.TotalLevels), count)

	var completed int64
	database.DB.Model(&progressModels.CompletionRecord{}).
		Where("user_id = ? AND is_completed = ?", user.ID, true).Count(&completed)
	assert.Zero(t, completed)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	setupTestDB(t)

	registerTestUser(t, "maria")
	_, err := Register(&RegisterRequest{
		Username: "maria",
		Email:    "other@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
}

func TestLogin_IssuesSession(t *testing.T) {
	setupTestDB(t)

	registerTestUser(t, "maria")
	token, user, err := Login(&LoginRequest{Username: "maria", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user.LastLogin)

	var session database.Session
	require.NoError(t, database.DB.Where("session_token = ?", token).First(&session).Error)
	assert.Equal(t, user.ID, session.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	setupTestDB(t)

	registerTestUser(t, "maria")
	_, _, err := Login(&LoginRequest{Username: "maria", Password: "wrong"})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	setupTestDB(t)

	_, _, err := Login(&LoginRequest{Username: "nobody", Password: "whatever"})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	setupTestDB(t)

	user := registerTestUser(t, "maria")
	_, err := SetActive(user.ID, false)
	require.NoError(t, err)

	_, _, err = Login(&LoginRequest{Username: "maria", Password: "correct-horse"})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	setupTestDB(t)

	registerTestUser(t, "maria")
	token, _, err := Login(&LoginRequest{Username: "maria", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, Logout(token))

	var count int64
	database.DB.Model(&database.Session{}).Where("session_token = ?", token).Count(&count)
	assert.Zero(t, count)
}

func TestSetActive_AdminProtected(t *testing.T) {
	setupTestDB(t)

	user := registerTestUser(t, "maria")
	_, err := SetAdmin(user.ID, true)
	require.NoError(t, err)

	_, err = SetActive(user.ID, false)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.Status)
}

func TestGetUserDetail(t *testing.T) {
	setupTestDB(t)

	user := registerTestUser(t, "maria")
	score := 100
	_, err := progressServices.SubmitCompletion(user.ID, &progressModels.SubmitCompletionRequest{
		ChapterID: 1,
		LevelID:   1,
		Score:     &score,
	})
	require.NoError(t, err)

	detail, err := GetUserDetail(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, detail.User.ID)
	assert.Contains(t, detail.Badges, badgeModels.TypeFirstLevelComplete)
}

func TestResetUserProgress_UnknownUser(t *testing.T) {
	setupTestDB(t)

	err := ResetUserProgress(999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestConfigureSessions_TTLApplied(t *testing.T) {
	setupTestDB(t)

	ConfigureSessions(1)
	t.Cleanup(func() { ConfigureSessions(72) })

	registerTestUser(t, "maria")
	token, _, err := Login(&LoginRequest{Username: "maria", Password: "correct-horse"})
	require.NoError(t, err)

	var session database.Session
	require.NoError(t, database.DB.Where("session_token = ?", token).First(&session).Error)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestConfigureSessions_IgnoresNonPositive(t *testing.T) {
	setupTestDB(t)

	ConfigureSessions(0)

	registerTestUser(t, "maria")
	token, _, err := Login(&LoginRequest{Username: "maria", Password: "correct-horse"})
	require.NoError(t, err)

	var session database.Session
	require.NoError(t, database.DB.Where("session_token = ?", token).First(&session).Error)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), session.ExpiresAt, time.Minute)
}
