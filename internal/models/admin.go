package models

import "time"

// Admin represents an administrator account stored in the database.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email    string `gorm:"type:text;not null;uniqueIndex"` // Unique contact address for resets.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	// Reset state is present only between issuance and redemption/expiry.
	// The plaintext token is never persisted.
	ResetTokenHash    string     `gorm:"type:text"` // SHA-256 of the outstanding reset token.
	ResetTokenExpires *time.Time // Reset token expiry, if one is outstanding.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
