package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses. CANCELLED is terminal.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking is a confirmed reservation of one or more rooms of a room type.
// Billing fields are snapshots taken at booking time and never recomputed,
// even if the room's pricing later changes.
type Booking struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User       *User     `json:"user,omitempty"`
	RoomTypeID uuid.UUID `gorm:"type:uuid;index" json:"room_type_id"`
	RoomType   *RoomType `json:"room_type,omitempty"`

	CheckIn    time.Time `gorm:"index" json:"check_in"`
	CheckOut   time.Time `gorm:"index" json:"check_out"`
	RoomsCount int       `gorm:"default:1" json:"rooms_count"`
	Status     string    `gorm:"default:'CONFIRMED';index" json:"status"`

	BaseRate  float64 `json:"base_rate"`
	Subtotal  float64 `json:"subtotal"`
	Taxes     float64 `json:"taxes"`
	Fees      float64 `json:"fees"`
	TotalCost float64 `json:"total_cost"`

	// PointsEarned is computed at booking time and awarded by the
	// post-stay finalize step. PointsUsed is non-zero only when the
	// booking was paid with points, in which case PointsEarned is zero.
	PointsEarned int `json:"points_earned"`
	PointsUsed   int `json:"points_used"`

	BreakfastIncluded     bool       `json:"breakfast_included"`
	BreakfastPricePerRoom float64    `json:"breakfast_price_per_room"`
	BreakfastVoucherID    *uuid.UUID `gorm:"type:uuid" json:"breakfast_voucher_id"`

	PaymentMethod string `gorm:"default:'pay_now'" json:"payment_method"`
}

// Nights returns the length of the stay in nights.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
