package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

// Milestone reward sizes. Claiming a threshold grants one or the other,
// the guest's choice.
const (
	MilestonePointsBonus       = 5000
	MilestoneBreakfastVouchers = 5
)

// milestoneThresholds are the claimable night counts per calendar year.
var milestoneThresholds = []int{20, 30, 40, 50, 60, 70, 80, 90, 100}

// MilestoneService tracks per-calendar-year night milestones and their
// one-time rewards.
type MilestoneService struct {
	db     *gorm.DB
	ledger *Ledger
}

// NewMilestoneService constructs a MilestoneService.
func NewMilestoneService(db *gorm.DB, ledger *Ledger) *MilestoneService {
	return &MilestoneService{db: db, ledger: ledger}
}

// Thresholds returns the milestone night counts.
func (s *MilestoneService) Thresholds() []int {
	out := make([]int, len(milestoneThresholds))
	copy(out, milestoneThresholds)
	return out
}

// YearNights sums the nights of the user's completed, confirmed stays
// with a check-in inside the calendar year containing ref. Counting is
// monotonic: only stays whose check-out has passed contribute.
func (s *MilestoneService) YearNights(tx *gorm.DB, userID uuid.UUID, ref time.Time) (int, error) {
	yearStart, yearEnd := utils.YearBounds(ref)
	today := utils.Today()

	var bookings []models.Booking
	err := tx.Where("user_id = ? AND status = ?", userID, models.BookingConfirmed).
		Where("check_in >= ? AND check_in <= ?", yearStart, yearEnd).
		Where("check_out <= ?", today).
		Find(&bookings).Error
	if err != nil {
		return 0, err
	}

	nights := 0
	for i := range bookings {
		nights += bookings[i].Nights()
	}
	return nights, nil
}

// Progress describes the user's milestone position this year.
type Progress struct {
	YearNights    int                      `json:"year_nights"`
	NextThreshold int                      `json:"next_threshold"`
	Claimable     []int                    `json:"claimable"`
	Claimed       []models.MilestoneReward `json:"claimed"`
}

// Progress reports the user's reached, claimed and claimable milestones.
func (s *MilestoneService) Progress(userID uuid.UUID, ref time.Time) (*Progress, error) {
	yearNights, err := s.YearNights(s.db, userID, ref)
	if err != nil {
		return nil, err
	}

	var claimed []models.MilestoneReward
	if err := s.db.Where("user_id = ?", userID).
		Order("milestone_nights asc").
		Find(&claimed).Error; err != nil {
		return nil, err
	}

	claimedSet := make(map[int]bool, len(claimed))
	for _, reward := range claimed {
		claimedSet[reward.MilestoneNights] = true
	}

	progress := &Progress{YearNights: yearNights, Claimed: claimed}
	for _, threshold := range milestoneThresholds {
		if yearNights >= threshold {
			if !claimedSet[threshold] {
				progress.Claimable = append(progress.Claimable, threshold)
			}
		} else if progress.NextThreshold == 0 {
			progress.NextThreshold = threshold
		}
	}
	return progress, nil
}

// Claim records a one-time milestone reward: either a points bonus paid
// through the ledger or a batch of breakfast vouchers. Exactly one
// MilestoneReward row exists per (user, threshold); a second claim fails
// with ErrAlreadyClaimed.
func (s *MilestoneService) Claim(userID uuid.UUID, threshold int, rewardType string) (*models.MilestoneReward, error) {
	if !validThreshold(threshold) {
		return nil, validationf("unknown milestone threshold %d", threshold)
	}
	if rewardType != models.RewardPoints && rewardType != models.RewardBreakfast {
		return nil, validationf("reward type must be %q or %q", models.RewardPoints, models.RewardBreakfast)
	}

	var reward models.MilestoneReward
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		ref := utils.Today()
		yearNights, err := s.YearNights(tx, userID, ref)
		if err != nil {
			return err
		}
		if yearNights < threshold {
			return validationf("%d nights this year, %d required", yearNights, threshold)
		}

		var count int64
		err = tx.Model(&models.MilestoneReward{}).
			Where("user_id = ? AND milestone_nights = ?", userID, threshold).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyClaimed
		}

		reward = models.MilestoneReward{
			UserID:          userID,
			MilestoneNights: threshold,
			RewardType:      rewardType,
			ClaimedYear:     ref.Year(),
		}
		switch rewardType {
		case models.RewardPoints:
			reward.RewardValue = MilestonePointsBonus
		case models.RewardBreakfast:
			reward.RewardValue = MilestoneBreakfastVouchers
		}

		if err := tx.Create(&reward).Error; err != nil {
			return err
		}

		if rewardType == models.RewardPoints {
			description := fmt.Sprintf("%d-night milestone bonus", threshold)
			return s.ledger.Bonus(tx, &user, MilestonePointsBonus, description)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// Vouchers returns the user's breakfast vouchers with remaining uses.
func (s *MilestoneService) Vouchers(userID uuid.UUID) ([]models.MilestoneReward, error) {
	var vouchers []models.MilestoneReward
	err := s.db.Where("user_id = ? AND reward_type = ?", userID, models.RewardBreakfast).
		Order("milestone_nights asc").
		Find(&vouchers).Error
	return vouchers, err
}

func validThreshold(threshold int) bool {
	for _, t := range milestoneThresholds {
		if t == threshold {
			return true
		}
	}
	return false
}
