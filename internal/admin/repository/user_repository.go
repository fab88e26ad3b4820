package repository

import (
	"time"

	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	"gorm.io/gorm"
)

// GetUserByID retrieves a user by primary key.
func GetUserByID(db *gorm.DB, userID uint) (*database.User, error) {
	var user database.User
	result := db.First(&user, userID)
	if result.Error != nil {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func GetUserByUsername(db *gorm.DB, username string) (*database.User, error) {
	var user database.User
	result := db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

// CreateUser inserts a new account.
func CreateUser(db *gorm.DB, user *database.User) error {
	result := db.Create(user)
	if result.Error != nil {
		return errors.Conflict("username or email already registered")
	}
	return nil
}

// UpdateUser persists account changes.
func UpdateUser(db *gorm.DB, user *database.User) error {
	result := db.Save(user)
	if result.Error != nil {
		return errors.Storage("failed to update user", result.Error.Error())
	}
	return nil
}

// ListUsers returns all accounts, oldest first.
func ListUsers(db *gorm.DB) ([]*database.User, error) {
	var users []*database.User
	result := db.Order("id ASC").Find(&users)
	if result.Error != nil {
		return nil, errors.Storage("failed to fetch users", result.Error.Error())
	}
	return users, nil
}

// CreateSession issues a session row for a logged-in user.
func CreateSession(db *gorm.DB, session *database.Session) error {
	result := db.Create(session)
	if result.Error != nil {
		return errors.Storage("failed to create session", result.Error.Error())
	}
	return nil
}

// DeleteSession invalidates one session token.
func DeleteSession(db *gorm.DB, token string) error {
	result := db.Where("session_token = ?", token).Delete(&database.Session{})
	if result.Error != nil {
		return errors.Storage("failed to delete session", result.Error.Error())
	}
	return nil
}

// DeleteExpiredSessions clears sessions past their expiry.
func DeleteExpiredSessions(db *gorm.DB) error {
	result := db.Where("expires_at < ?", time.Now()).Delete(&database.Session{})
	if result.Error != nil {
		return errors.Storage("failed to clear expired sessions", result.Error.Error())
	}
	return nil
}
