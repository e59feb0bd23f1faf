package models

import (
	"time"

	"gorm.io/datatypes"
)

// Card request workflow states.
const (
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// CardRequest is a student's pending ID-card application. Approval moves
// the record into ApprovedApplication; rejection mutates it in place.
type CardRequest struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	StudentID string `gorm:"column:student_id;type:text;not null;uniqueIndex"` // University student ID.
	CardType  string `gorm:"type:text;not null;default:student"`               // Requested card type.
	FirstName string `gorm:"type:text;not null"`
	LastName  string `gorm:"type:text;not null"`
	Email     string `gorm:"type:text;not null"`
	Program   string `gorm:"type:text"`

	TrxID  string `gorm:"column:trx_id;type:text;not null;uniqueIndex"` // Claimed payment transaction reference.
	Amount string `gorm:"type:text;not null;default:0"`                 // Claimed amount, as submitted.

	RequestType   string `gorm:"type:text;not null;default:new"` // new / replacement.
	PaymentStatus string `gorm:"type:text;not null;default:Pending"`

	Status          string `gorm:"type:text;not null;default:pending"` // pending or rejected; approved rows migrate out.
	RejectionReason string `gorm:"type:text"`

	// Blob store object keys; raw bytes never live in the record.
	Photo      string         `gorm:"column:photo;type:text"`
	GDCopy     string         `gorm:"column:gd_copy;type:text"`
	OldIDImage string         `gorm:"column:old_id_image;type:text"`
	Documents  datatypes.JSON `gorm:"type:jsonb"` // Additional document keys.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
