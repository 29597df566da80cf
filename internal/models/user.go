package models

import (
	"time"
)

// User represents an authenticated guest with their loyalty state.
type User struct {
	BaseModel
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"is_admin"`

	// Loyalty program state. Points is the redeemable balance and must
	// always equal the sum of the user's PointsTransaction rows.
	// LifetimePoints and NightsStayed are monotonic and drive the tier.
	Points          int    `json:"points"`
	LifetimePoints  int    `json:"lifetime_points"`
	NightsStayed    int    `json:"nights_stayed"`
	MembershipLevel string `gorm:"default:'Club Member'" json:"membership_level"`
	MemberNumber    string `gorm:"uniqueIndex" json:"member_number"`

	// Tier-year retention window. Counters reset on upgrade or renewal.
	TierEarnedDate    *time.Time `json:"tier_earned_date"`
	TierExpiryDate    *time.Time `json:"tier_expiry_date"`
	CurrentYearNights int        `json:"current_year_nights"`
	CurrentYearPoints int        `json:"current_year_points"`

	Phone      string     `json:"phone"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	Country    string     `json:"country"`
	PostalCode string     `json:"postal_code"`
	Birthday   *time.Time `json:"birthday"`

	Bookings           []Booking           `json:"bookings,omitempty"`
	PointsTransactions []PointsTransaction `json:"points_transactions,omitempty"`
	MilestoneRewards   []MilestoneReward   `json:"milestone_rewards,omitempty"`
}
