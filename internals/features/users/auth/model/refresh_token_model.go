package model

import (
	"time"
)

// RefreshTokenModel stores the SHA-256 hash of issued refresh tokens
// (never the plaintext). Rows are rotated on every refresh.
type RefreshTokenModel struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash []byte     `gorm:"type:bytea;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	UserAgent *string    `json:"user_agent,omitempty"`
	IP        *string    `json:"ip,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
