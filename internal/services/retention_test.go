package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

func setTierState(t *testing.T, db *gorm.DB, user *models.User, level string, expiry time.Time, yearNights, yearPoints, lifetime, nights int) {
	t.Helper()
	earned := expiry.AddDate(0, 0, -365)
	err := db.Model(user).Updates(map[string]interface{}{
		"membership_level":    level,
		"tier_earned_date":    earned,
		"tier_expiry_date":    expiry,
		"current_year_nights": yearNights,
		"current_year_points": yearPoints,
		"lifetime_points":     lifetime,
		"nights_stayed":       nights,
	}).Error
	if err != nil {
		t.Fatalf("seed tier state: %v", err)
	}
}

func TestRetentionClubMemberExempt(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	retention := NewRetentionService(db)

	status, err := retention.Process(user.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !status.Exempt {
		t.Error("Club Member must be exempt from retention")
	}
	if status.Renewed || status.Downgraded {
		t.Error("exempt member must be neither renewed nor downgraded")
	}
}

func TestRetentionNoOpBeforeExpiry(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	retention := NewRetentionService(db)

	setTierState(t, db, user, "Silver Elite", utils.Today().AddDate(0, 0, 100), 3, 5000, 60_000, 8)

	status, err := retention.Process(user.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if status.Renewed || status.Downgraded {
		t.Error("an unexpired tier year must not be processed")
	}

	fresh := reloadUser(t, db, user)
	if fresh.CurrentYearNights != 3 {
		t.Errorf("year nights = %d, counters must be untouched", fresh.CurrentYearNights)
	}
}

func TestRetentionRenewsWhenRequirementMet(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	retention := NewRetentionService(db)

	expired := utils.Today().AddDate(0, 0, -1)
	setTierState(t, db, user, "Silver Elite", expired, 12, 3000, 60_000, 15)

	status, err := retention.Process(user.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !status.Renewed {
		t.Fatal("12 nights meets the Silver requirement, expected renewal")
	}
	if status.Downgraded {
		t.Error("a renewed member must not be downgraded")
	}

	fresh := reloadUser(t, db, user)
	if fresh.MembershipLevel != "Silver Elite" {
		t.Errorf("membership = %q, want Silver Elite", fresh.MembershipLevel)
	}
	if fresh.CurrentYearNights != 0 || fresh.CurrentYearPoints != 0 {
		t.Error("renewal must reset the year counters")
	}
	if fresh.TierExpiryDate == nil || !fresh.TierExpiryDate.After(utils.Today()) {
		t.Error("renewal must open a fresh tier year")
	}
}

func TestRetentionDowngradeFallsBackToLifetimeTier(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	retention := NewRetentionService(db)

	expired := utils.Today().AddDate(0, 0, -1)
	// Gold by name, but lifetime stats only justify Silver.
	setTierState(t, db, user, "Gold Elite", expired, 2, 1000, 60_000, 12)

	status, err := retention.Process(user.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !status.Downgraded {
		t.Fatal("missed requirement must downgrade")
	}
	if status.DowngradedTo != "Silver Elite" {
		t.Errorf("downgraded to %q, want Silver Elite", status.DowngradedTo)
	}

	fresh := reloadUser(t, db, user)
	if fresh.MembershipLevel != "Silver Elite" {
		t.Errorf("membership = %q, want Silver Elite", fresh.MembershipLevel)
	}
	if fresh.CurrentYearNights != 0 || fresh.CurrentYearPoints != 0 {
		t.Error("downgrade must reset the year counters")
	}
}

func TestRetentionMigratedUserGetsWindow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	retention := NewRetentionService(db)

	// Tier set, but no window recorded.
	if err := db.Model(user).Updates(map[string]interface{}{
		"membership_level": "Silver Elite",
		"lifetime_points":  60_000,
	}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	status, err := retention.Process(user.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if status.Renewed || status.Downgraded {
		t.Error("granting a first window is neither renewal nor downgrade")
	}

	fresh := reloadUser(t, db, user)
	if fresh.TierExpiryDate == nil {
		t.Fatal("expected a tier year window to be opened")
	}
}
