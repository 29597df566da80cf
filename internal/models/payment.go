package models

import (
	"github.com/google/uuid"
)

// PaymentMethod is a stored card on file. Only the last four digits are
// kept; cards are never charged.
type PaymentMethod struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CardType       string    `json:"card_type"`
	Last4          string    `json:"last4"`
	ExpiryMonth    string    `json:"expiry_month"`
	ExpiryYear     string    `json:"expiry_year"`
	CardholderName string    `json:"cardholder_name"`
	IsDefault      bool      `json:"is_default"`
}
