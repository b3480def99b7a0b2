package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/oomip/gatherly/internal/config"
	"github.com/oomip/gatherly/internal/models"
	"github.com/oomip/gatherly/internal/utils"
	"github.com/oomip/gatherly/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// AuthService issues and revokes login sessions. The access token is a JWT;
// every login also writes a Session record keyed by the sha256 of the token
// so that logout actually ends the session server-side.
type AuthService struct {
	db        *gorm.DB
	users     *UserService
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		db:        db,
		users:     NewUserService(db),
		jwtConfig: jwtCfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expire_at"`
	User     *models.User `json:"user"`
}

// Login authenticates a user, issues a token and records the session.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	expireHours := s.jwtConfig.ExpireHour
	if expireHours <= 0 {
		expireHours = 24
	}

	token, err := utils.GenerateToken(user.ID, user.Username, expireHours)
	if err != nil {
		return nil, err
	}

	expireAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	session := models.Session{
		UserID:    user.ID,
		TokenHash: hashToken(token),
		UserAgent: userAgent,
		ClientIP:  clientIP,
		ExpiresAt: expireAt,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		ExpireAt: expireAt,
		User:     user,
	}, nil
}

// ValidateSession parses the token and checks that its session record is
// still live (present, unexpired, not revoked).
func (s *AuthService) ValidateSession(token string) (*utils.Claims, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, err
	}

	var session models.Session
	if err := s.db.First(&session, "token_hash = ?", hashToken(token)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("session not found")
		}
		return nil, err
	}

	if session.RevokedAt != nil {
		return nil, errors.New("session revoked")
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, errors.New("session expired")
	}

	return claims, nil
}

// Logout revokes the session for the given token. Unknown tokens are a no-op.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}

	now := time.Now()
	return s.db.Model(&models.Session{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(token)).
		Update("revoked_at", now).Error
}

// RevokeUserSessions revokes every live session of a user (used when the
// account is deleted).
func (s *AuthService) RevokeUserSessions(userID string) error {
	now := time.Now()
	return s.db.Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// GetUserByID exposes directory lookup for the boundary layer.
func (s *AuthService) GetUserByID(id string) (*models.User, error) {
	return s.users.GetByID(id)
}

// CleanupExpiredSessions deletes sessions that expired or were revoked more
// than 24 hours ago.
func (s *AuthService) CleanupExpiredSessions() error {
	cutoff := time.Now().Add(-24 * time.Hour)
	result := s.db.
		Where("expires_at < ?", cutoff).
		Or("revoked_at IS NOT NULL AND revoked_at < ?", cutoff).
		Delete(&models.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infof("[Auth] Cleaned up %d stale sessions", result.RowsAffected)
	}
	return nil
}

var sessionCleanupCron *cron.Cron

// StartSessionCleanupScheduler runs session cleanup hourly.
func StartSessionCleanupScheduler(db *gorm.DB, jwtCfg *config.JWTConfig) {
	svc := NewAuthService(db, jwtCfg)

	sessionCleanupCron = cron.New()
	if _, err := sessionCleanupCron.AddFunc("0 * * * *", func() {
		if err := svc.CleanupExpiredSessions(); err != nil {
			logger.Warn().Err(err).Msg("session cleanup failed")
		}
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to schedule session cleanup")
		return
	}
	sessionCleanupCron.Start()
}

// StopSessionCleanupScheduler stops the cleanup scheduler.
func StopSessionCleanupScheduler() {
	if sessionCleanupCron != nil {
		sessionCleanupCron.Stop()
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
