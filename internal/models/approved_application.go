package models

import (
	"time"

	"gorm.io/datatypes"
)

// ApprovedApplication is the denormalized copy of a CardRequest created
// on approval. Once written it is never altered by this service.
type ApprovedApplication struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	StudentID string `gorm:"column:student_id;type:text;not null;index"`
	CardType  string `gorm:"type:text"`
	FirstName string `gorm:"type:text"`
	LastName  string `gorm:"type:text"`
	Email     string `gorm:"type:text;index"`
	Program   string `gorm:"type:text"`

	TrxID  string `gorm:"column:trx_id;type:text"`
	Amount string `gorm:"type:text"`

	RequestType   string `gorm:"type:text"`
	PaymentStatus string `gorm:"type:text;not null;default:Approved"`

	Photo      string         `gorm:"column:photo;type:text"`
	GDCopy     string         `gorm:"column:gd_copy;type:text"`
	OldIDImage string         `gorm:"column:old_id_image;type:text"`
	Documents  datatypes.JSON `gorm:"type:jsonb"`

	ApprovedAt time.Time `gorm:"not null"`               // When the decision was made.
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
