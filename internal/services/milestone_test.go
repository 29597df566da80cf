package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

// createStay inserts a CONFIRMED booking with explicit dates.
func createStay(t *testing.T, db *gorm.DB, user *models.User, roomType *models.RoomType, checkIn, checkOut time.Time) {
	t.Helper()

	booking := &models.Booking{
		UserID:     user.ID,
		RoomTypeID: roomType.ID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		RoomsCount: 1,
		Status:     models.BookingConfirmed,
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("create stay: %v", err)
	}
}

func TestMilestoneProgressCountsCompletedNights(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 5)
	milestones := NewMilestoneService(db, NewLedger())

	today := utils.Today()
	createStay(t, db, user, roomType, today.AddDate(0, 0, -15), today.AddDate(0, 0, -5))
	createStay(t, db, user, roomType, today.AddDate(0, 0, -12), today)
	// Upcoming stays never count until checked out.
	createStay(t, db, user, roomType, futureDate(5), futureDate(10))

	progress, err := milestones.Progress(user.ID, today)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress.YearNights != 22 {
		t.Errorf("year nights = %d, want 22", progress.YearNights)
	}
	if len(progress.Claimable) != 1 || progress.Claimable[0] != 20 {
		t.Errorf("claimable = %v, want [20]", progress.Claimable)
	}
	if progress.NextThreshold != 30 {
		t.Errorf("next threshold = %d, want 30", progress.NextThreshold)
	}
}

func TestMilestoneClaimOnce(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 5)
	milestones := NewMilestoneService(db, NewLedger())

	today := utils.Today()
	createStay(t, db, user, roomType, today.AddDate(0, 0, -20), today)

	reward, err := milestones.Claim(user.ID, 20, models.RewardPoints)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if reward.RewardValue != MilestonePointsBonus {
		t.Errorf("reward value = %d, want %d", reward.RewardValue, MilestonePointsBonus)
	}
	if fresh := reloadUser(t, db, user); fresh.Points != MilestonePointsBonus {
		t.Errorf("balance = %d, want %d", fresh.Points, MilestonePointsBonus)
	}

	_, err = milestones.Claim(user.ID, 20, models.RewardPoints)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim = %v, want ErrAlreadyClaimed", err)
	}
	if fresh := reloadUser(t, db, user); fresh.Points != MilestonePointsBonus {
		t.Errorf("balance after rejected claim = %d, want %d", fresh.Points, MilestonePointsBonus)
	}
}

func TestMilestoneClaimBelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 5)
	milestones := NewMilestoneService(db, NewLedger())

	today := utils.Today()
	createStay(t, db, user, roomType, today.AddDate(0, 0, -5), today)

	var validation *ValidationError
	_, err := milestones.Claim(user.ID, 20, models.RewardPoints)
	if !errors.As(err, &validation) {
		t.Fatalf("claim with 5 nights = %v, want validation error", err)
	}
}

func TestMilestoneClaimBreakfastVouchers(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 5)
	milestones := NewMilestoneService(db, NewLedger())

	today := utils.Today()
	createStay(t, db, user, roomType, today.AddDate(0, 0, -20), today)

	reward, err := milestones.Claim(user.ID, 20, models.RewardBreakfast)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if reward.AvailableBreakfasts() != MilestoneBreakfastVouchers {
		t.Errorf("available breakfasts = %d, want %d",
			reward.AvailableBreakfasts(), MilestoneBreakfastVouchers)
	}
	// A breakfast claim moves no points.
	if fresh := reloadUser(t, db, user); fresh.Points != 0 {
		t.Errorf("balance = %d, want 0", fresh.Points)
	}

	vouchers, err := milestones.Vouchers(user.ID)
	if err != nil {
		t.Fatalf("vouchers: %v", err)
	}
	if len(vouchers) != 1 {
		t.Errorf("got %d vouchers, want 1", len(vouchers))
	}
}

func TestMilestoneUnknownThreshold(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	milestones := NewMilestoneService(db, NewLedger())

	var validation *ValidationError
	if _, err := milestones.Claim(user.ID, 25, models.RewardPoints); !errors.As(err, &validation) {
		t.Errorf("claim 25 = %v, want validation error", err)
	}
	if _, err := milestones.Claim(user.ID, 20, "cash"); !errors.As(err, &validation) {
		t.Errorf("claim cash reward = %v, want validation error", err)
	}
}
