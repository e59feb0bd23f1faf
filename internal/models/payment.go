package models

import (
	"time"

	"gorm.io/datatypes"
)

// Payment records a claimed payment transaction. The transaction
// reference is a uniqueness key, not independently verified.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email string `gorm:"type:text;not null;index"`                     // Payer email.
	TrxID string `gorm:"column:trx_id;type:text;not null;uniqueIndex"` // Claimed transaction reference.

	Amount int64  `gorm:"not null"`                         // Claimed amount, positive.
	Type   string `gorm:"type:text;not null;default:topup"` // Payment type.
	Status string `gorm:"type:text;not null;default:pending"`

	UserInfo datatypes.JSON `gorm:"type:jsonb"` // Denormalized payer info as submitted.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
