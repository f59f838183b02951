// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/sha256"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	authModel "schoolku_backend/internals/features/users/auth/model"
	userModel "schoolku_backend/internals/features/users/user/model"
	"schoolku_backend/internals/helpers/apperr"
)

// TokenPair is what login/register/refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IssueTokens builds the HS256 access+refresh pair and persists the refresh
// hash for rotation. Access claims carry role/school_id for token consumers;
// the auth middleware still re-reads the account row on every request, so
// role changes and deactivation apply without waiting for token expiry.
func IssueTokens(db *gorm.DB, user *userModel.UserModel, userAgent, ip string) (*TokenPair, error) {
	now := time.Now().UTC()

	accessClaims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(configs.AccessTokenTTL).Unix(),
	}
	if user.SchoolID != nil {
		accessClaims["school_id"] = *user.SchoolID
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, apperr.New(apperr.Internal, "Gagal membuat access token")
	}

	refreshClaims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(configs.RefreshTokenTTL).Unix(),
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return nil, apperr.New(apperr.Internal, "Gagal membuat refresh token")
	}

	row := &authModel.RefreshTokenModel{
		UserID:    user.ID,
		TokenHash: HashToken(refresh),
		ExpiresAt: now.Add(configs.RefreshTokenTTL),
	}
	if userAgent != "" {
		row.UserAgent = &userAgent
	}
	if ip != "" {
		row.IP = &ip
	}
	if err := db.Create(row).Error; err != nil {
		return nil, apperr.FromGorm(err, "")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RotateRefresh validates a refresh token, revokes its stored hash and issues
// a fresh pair. Unknown or already-rotated tokens are Unauthenticated.
func RotateRefresh(db *gorm.DB, refreshToken, userAgent, ip string) (*TokenPair, *userModel.UserModel, error) {
	tok, err := jwt.Parse(refreshToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil, nil, apperr.New(apperr.Unauthenticated, "Refresh token invalid")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, apperr.New(apperr.Unauthenticated, "Refresh token invalid")
	}
	sub, _ := claims["sub"].(string)
	userID64, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, nil, apperr.New(apperr.Unauthenticated, "Refresh token invalid")
	}

	var row authModel.RefreshTokenModel
	err = db.Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?",
		HashToken(refreshToken), time.Now().UTC()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.Unauthenticated, "Refresh token tidak dikenal")
		}
		return nil, nil, apperr.FromGorm(err, "")
	}

	var user userModel.UserModel
	if err := db.First(&user, uint(userID64)).Error; err != nil {
		return nil, nil, apperr.FromGorm(err, "User not found")
	}
	if !user.IsActive {
		return nil, nil, apperr.New(apperr.Forbidden, "Akun dinonaktifkan")
	}

	// ROTATE: revoke the old row before issuing the new pair.
	now := time.Now().UTC()
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("id = ?", row.ID).
		Update("revoked_at", now).Error; err != nil {
		return nil, nil, apperr.FromGorm(err, "")
	}

	pair, err := IssueTokens(db, &user, userAgent, ip)
	if err != nil {
		return nil, nil, err
	}
	return pair, &user, nil
}

// RevokeAll revokes every live refresh token of a user (logout).
func RevokeAll(db *gorm.DB, userID uint) error {
	now := time.Now().UTC()
	return db.Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

func HashToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}
