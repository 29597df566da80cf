package models

import (
	"github.com/google/uuid"
)

// Milestone reward types.
const (
	RewardPoints    = "points"
	RewardBreakfast = "breakfast"
)

// MilestoneReward records a claimed night milestone. One row exists per
// (user, milestone nights) pair; claiming is a one-time action. For
// breakfast rewards RewardValue is the number of vouchers granted and
// BreakfastsUsed how many have been consumed by bookings.
type MilestoneReward struct {
	BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_milestone_user_nights" json:"user_id"`
	MilestoneNights int       `gorm:"uniqueIndex:idx_milestone_user_nights" json:"milestone_nights"`
	RewardType      string    `json:"reward_type"`
	RewardValue     int       `json:"reward_value"`
	BreakfastsUsed  int       `json:"breakfasts_used"`
	ClaimedYear     int       `json:"claimed_year"`
}

// AvailableBreakfasts returns the unconsumed voucher count.
func (m *MilestoneReward) AvailableBreakfasts() int {
	if m.RewardType != RewardBreakfast {
		return 0
	}
	remaining := m.RewardValue - m.BreakfastsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
