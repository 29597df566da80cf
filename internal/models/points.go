package models

import (
	"github.com/google/uuid"
)

// Points transaction types. EARNED, BONUS and REFUNDED carry positive
// amounts, REDEEMED negative.
const (
	PointsEarned   = "EARNED"
	PointsRedeemed = "REDEEMED"
	PointsRefunded = "REFUNDED"
	PointsBonus    = "BONUS"
)

// PointsTransaction is an immutable ledger entry. Rows are never updated
// or deleted; a cancellation writes an offsetting REFUNDED entry. At most
// one EARNED row may exist per booking, enforced by a partial unique index
// created during migration.
type PointsTransaction struct {
	BaseModel
	UserID          uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	BookingID       *uuid.UUID `gorm:"type:uuid;index" json:"booking_id"`
	Points          int        `json:"points"`
	TransactionType string     `gorm:"index" json:"transaction_type"`
	Description     string     `json:"description"`
}
