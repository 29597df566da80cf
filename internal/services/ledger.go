package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/models"
)

// Ledger is the append-only points log. Every operation writes exactly one
// PointsTransaction row and adjusts the user's balance in the same
// transaction, so the balance always equals the sum of the user's rows.
// Callers pass the transaction handle they are operating in.
type Ledger struct{}

// NewLedger constructs a Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Earn credits points from a completed stay. Lifetime points move with the
// balance since they track cumulative earning for tier purposes. An EARNED
// row is written even for a zero amount: the row is what marks a booking
// as processed by finalize.
func (l *Ledger) Earn(tx *gorm.DB, user *models.User, amount int, bookingID *uuid.UUID, description string) error {
	if amount < 0 {
		return validationf("earn amount cannot be negative")
	}

	entry := models.PointsTransaction{
		UserID:          user.ID,
		BookingID:       bookingID,
		Points:          amount,
		TransactionType: models.PointsEarned,
		Description:     description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	user.Points += amount
	user.LifetimePoints += amount
	return tx.Model(user).Updates(map[string]interface{}{
		"points":          user.Points,
		"lifetime_points": user.LifetimePoints,
	}).Error
}

// Redeem debits points, for example to pay for a booking. Fails with
// ErrInsufficientPoints before writing anything if the balance is too low.
// Redemptions never touch lifetime points.
func (l *Ledger) Redeem(tx *gorm.DB, user *models.User, amount int, bookingID *uuid.UUID, description string) error {
	if amount <= 0 {
		return validationf("redeem amount must be positive")
	}
	if amount > user.Points {
		return ErrInsufficientPoints
	}

	entry := models.PointsTransaction{
		UserID:          user.ID,
		BookingID:       bookingID,
		Points:          -amount,
		TransactionType: models.PointsRedeemed,
		Description:     description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	user.Points -= amount
	return tx.Model(user).Update("points", user.Points).Error
}

// Refund returns previously redeemed points, for example on cancellation.
// The original REDEEMED row stays; this writes an offsetting entry.
func (l *Ledger) Refund(tx *gorm.DB, user *models.User, amount int, bookingID *uuid.UUID, description string) error {
	if amount <= 0 {
		return validationf("refund amount must be positive")
	}

	entry := models.PointsTransaction{
		UserID:          user.ID,
		BookingID:       bookingID,
		Points:          amount,
		TransactionType: models.PointsRefunded,
		Description:     description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	user.Points += amount
	return tx.Model(user).Update("points", user.Points).Error
}

// Bonus credits promotional points (milestone claims, admin grants). Like
// earning, bonuses count toward lifetime points.
func (l *Ledger) Bonus(tx *gorm.DB, user *models.User, amount int, description string) error {
	if amount <= 0 {
		return validationf("bonus amount must be positive")
	}

	entry := models.PointsTransaction{
		UserID:          user.ID,
		Points:          amount,
		TransactionType: models.PointsBonus,
		Description:     description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	user.Points += amount
	user.LifetimePoints += amount
	return tx.Model(user).Updates(map[string]interface{}{
		"points":          user.Points,
		"lifetime_points": user.LifetimePoints,
	}).Error
}

// HasEarned reports whether an EARNED row exists for the booking. This is
// the idempotency check finalize relies on.
func (l *Ledger) HasEarned(tx *gorm.DB, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&models.PointsTransaction{}).
		Where("booking_id = ? AND transaction_type = ?", bookingID, models.PointsEarned).
		Count(&count).Error
	return count > 0, err
}

// SumByType totals a user's transactions of one type.
func (l *Ledger) SumByType(tx *gorm.DB, userID uuid.UUID, transactionType string) (int, error) {
	var result struct {
		Total int
	}
	err := tx.Model(&models.PointsTransaction{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Where("user_id = ? AND transaction_type = ?", userID, transactionType).
		Scan(&result).Error
	return result.Total, err
}
