// Package models holds the persisted entity types shared by repositories,
// services and the HTTP layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. The password hash never leaves the server: it is
// excluded from JSON and only compared inside the user service.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// UserSettings is the per-user presentation row created with defaults at
// registration.
type UserSettings struct {
	UserID            uuid.UUID `json:"user_id"`
	Theme             string    `json:"theme"`
	CRTEffect         bool      `json:"crt_effect"`
	ScanlineIntensity float64   `json:"scanline_intensity"`
	AudioVolume       float64   `json:"audio_volume"`
	UpdatedAt         time.Time `json:"updated_at"`
}
