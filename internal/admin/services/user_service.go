package services

import (
	"time"

	"github.com/architect/rizal-quest/internal/admin/repository"
	badgeRepo "github.com/architect/rizal-quest/internal/badges/repository"
	"github.com/architect/rizal-quest/internal/common/database"
	"github.com/architect/rizal-quest/internal/common/errors"
	progressServices "github.com/architect/rizal-quest/internal/progress/services"
	"github.com/architect/rizal-quest/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var sessionTTL = 72 * time.Hour

// ConfigureSessions sets the session lifetime from configuration. Called once
// at startup before the router begins serving.
func ConfigureSessions(ttlHours int) {
	if ttlHours > 0 {
		sessionTTL = time.Duration(ttlHours) * time.Hour
	}
}

// RegisterRequest carries a new account registration.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=32"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// LoginRequest carries a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserDetail is the admin read model for one account.
type UserDetail struct {
	User       *database.User `json:"user"`
	Statistics interface{}    `json:"statistics"`
	Badges     []string       `json:"badges"`
}

// Register creates an account and seeds its curriculum: every level starts
// unlocked and uncompleted.
func Register(req *RegisterRequest) (*database.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password", err.Error())
	}

	user := &database.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		IsActive:     true,
	}

	if err := repository.CreateUser(database.DB, user); err != nil {
		return nil, err
	}

	if err := progressServices.InitializeUser(user.ID); err != nil {
		return nil, err
	}

	logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials against the bcrypt hash and issues a session
// token. There is no plaintext comparison path.
func Login(req *LoginRequest) (string, *database.User, error) {
	user, err := repository.GetUserByUsername(database.DB, req.Username)
	if err != nil {
		return "", nil, errors.Unauthorized("invalid credentials")
	}

	if !user.IsActive {
		return "", nil, errors.Forbidden("account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, errors.Unauthorized("invalid credentials")
	}

	token := uuid.NewString()
	session := &database.Session{
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(sessionTTL),
		LastActivity: time.Now(),
	}
	if err := repository.CreateSession(database.DB, session); err != nil {
		return "", nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := repository.UpdateUser(database.DB, user); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Logout invalidates a session token.
func Logout(token string) error {
	if token == "" {
		return errors.BadRequest("missing session token")
	}
	return repository.DeleteSession(database.DB, token)
}

// ListUsers returns every account for the admin view.
func ListUsers() ([]*database.User, error) {
	return repository.ListUsers(database.DB)
}

// GetUserDetail assembles the admin read model for one account.
func GetUserDetail(userID uint) (*UserDetail, error) {
	user, err := repository.GetUserByID(database.DB, userID)
	if err != nil {
		return nil, err
	}

	stats, err := progressServices.GetStatistics(userID)
	if err != nil {
		return nil, err
	}

	badges, err := badgeRepo.ListBadgeTypes(database.DB, userID)
	if err != nil {
		return nil, err
	}

	return &UserDetail{User: user, Statistics: stats, Badges: badges}, nil
}

// SetActive toggles an account's active flag. Deactivation is a terminal
// soft-delete for non-admin accounts: progress records survive, new sessions
// are refused.
func SetActive(userID uint, active bool) (*database.User, error) {
	user, err := repository.GetUserByID(database.DB, userID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin && !active {
		return nil, errors.Forbidden("admin accounts cannot be deactivated")
	}

	user.IsActive = active
	if err := repository.UpdateUser(database.DB, user); err != nil {
		return nil, err
	}

	logger.Info("user active flag changed", zap.Uint("user_id", userID), zap.Bool("active", active))
	return user, nil
}

// SetAdmin toggles an account's admin flag.
func SetAdmin(userID uint, admin bool) (*database.User, error) {
	user, err := repository.GetUserByID(database.DB, userID)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = admin
	if err := repository.UpdateUser(database.DB, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResetUserProgress wipes and reseeds one user's progress ledger.
func ResetUserProgress(userID uint) error {
	if _, err := repository.GetUserByID(database.DB, userID); err != nil {
		return err
	}

	if err := progressServices.ResetProgress(userID); err != nil {
		return err
	}

	logger.Info("user progress reset", zap.Uint("user_id", userID))
	return nil
}
