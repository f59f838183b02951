package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/constants"
	authModel "schoolku_backend/internals/features/users/auth/model"
	userModel "schoolku_backend/internals/features/users/user/model"
)

func init() {
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userModel.UserModel{}, &authModel.RefreshTokenModel{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *userModel.UserModel {
	t.Helper()
	schoolID := uint(1)
	u := &userModel.UserModel{
		Email: "guru@test.id", UserName: "guru", PasswordHash: "x",
		Role: constants.RoleTeacher, FirstName: "Guru", LastName: "Satu",
		SchoolID: &schoolID, IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestIssueTokensPersistsHashedRefresh(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	pair, err := IssueTokens(db, user, "go-test", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	var row authModel.RefreshTokenModel
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, user.ID, row.UserID)
	assert.Equal(t, HashToken(pair.RefreshToken), row.TokenHash)
	// Only the hash is stored, never the token itself.
	assert.NotContains(t, string(row.TokenHash), pair.RefreshToken)
	assert.Nil(t, row.RevokedAt)
}

func TestRotateRefreshRevokesOldToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	pair, err := IssueTokens(db, user, "", "")
	require.NoError(t, err)

	newPair, rotatedUser, err := RotateRefresh(db, pair.RefreshToken, "", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, rotatedUser.ID)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// Replaying the rotated token must fail.
	_, _, err = RotateRefresh(db, pair.RefreshToken, "", "")
	assert.Error(t, err)
}

func TestRotateRefreshRejectsGarbage(t *testing.T) {
	db := newTestDB(t)

	_, _, err := RotateRefresh(db, "not-a-jwt", "", "")
	assert.Error(t, err)
}

func TestRotateRefreshRejectsInactiveUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	pair, err := IssueTokens(db, user, "", "")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err = RotateRefresh(db, pair.RefreshToken, "", "")
	assert.Error(t, err)
}

func TestRevokeAllKillsEverySession(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)

	first, err := IssueTokens(db, user, "", "")
	require.NoError(t, err)
	second, err := IssueTokens(db, user, "", "")
	require.NoError(t, err)

	require.NoError(t, RevokeAll(db, user.ID))

	_, _, err = RotateRefresh(db, first.RefreshToken, "", "")
	assert.Error(t, err)
	_, _, err = RotateRefresh(db, second.RefreshToken, "", "")
	assert.Error(t, err)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.Error(t, ValidatePasswordStrength("Pndk1"))
	assert.Error(t, ValidatePasswordStrength("alllowercase1"))
	assert.Error(t, ValidatePasswordStrength("ALLUPPERCASE1"))
	assert.Error(t, ValidatePasswordStrength("NoDigitsHere"))
	assert.NoError(t, ValidatePasswordStrength("Rahasia123"))
}
