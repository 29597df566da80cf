package services

import (
	"errors"
	"testing"

	"github.com/example/solara/internal/models"
)

func TestLedgerBalanceEqualsSumOfRows(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	ledger := NewLedger()

	if err := ledger.Earn(db, user, 2300, nil, "stay"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if err := ledger.Bonus(db, user, 5000, "milestone"); err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if err := ledger.Redeem(db, user, 1000, nil, "payment"); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if err := ledger.Refund(db, user, 1000, nil, "cancellation"); err != nil {
		t.Fatalf("refund: %v", err)
	}

	fresh := reloadUser(t, db, user)
	if fresh.Points != 7300 {
		t.Errorf("balance = %d, want 7300", fresh.Points)
	}

	var sum struct{ Total int }
	err := db.Model(&models.PointsTransaction{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Where("user_id = ?", user.ID).
		Scan(&sum).Error
	if err != nil {
		t.Fatalf("sum rows: %v", err)
	}
	if sum.Total != fresh.Points {
		t.Errorf("transaction sum = %d, balance = %d, must match", sum.Total, fresh.Points)
	}

	// Neither redemptions nor refunds count toward lifetime earning:
	// only earn (2300) and bonus (5000) move it.
	if fresh.LifetimePoints != 7300 {
		t.Errorf("lifetime points = %d, want 7300", fresh.LifetimePoints)
	}
}

func TestLedgerSumByType(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	ledger := NewLedger()

	if err := ledger.Earn(db, user, 2300, nil, "first stay"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if err := ledger.Earn(db, user, 1000, nil, "second stay"); err != nil {
		t.Fatalf("earn: %v", err)
	}
	if err := ledger.Bonus(db, user, 5000, "milestone"); err != nil {
		t.Fatalf("bonus: %v", err)
	}
	if err := ledger.Redeem(db, user, 2000, nil, "payment"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	cases := map[string]int{
		models.PointsEarned:   3300,
		models.PointsBonus:    5000,
		models.PointsRedeemed: -2000,
		models.PointsRefunded: 0,
	}
	for transactionType, want := range cases {
		got, err := ledger.SumByType(db, user.ID, transactionType)
		if err != nil {
			t.Fatalf("sum %s: %v", transactionType, err)
		}
		if got != want {
			t.Errorf("sum of %s = %d, want %d", transactionType, got, want)
		}
	}
}

func TestLedgerRedeemInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	ledger := NewLedger()

	if err := ledger.Earn(db, user, 500, nil, "stay"); err != nil {
		t.Fatalf("earn: %v", err)
	}

	err := ledger.Redeem(db, user, 501, nil, "payment")
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("redeem past balance = %v, want ErrInsufficientPoints", err)
	}

	// The failed redeem must leave no trace.
	var count int64
	if err := db.Model(&models.PointsTransaction{}).
		Where("user_id = ? AND transaction_type = ?", user.ID, models.PointsRedeemed).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("found %d REDEEMED rows after failed redeem, want 0", count)
	}
	if fresh := reloadUser(t, db, user); fresh.Points != 500 {
		t.Errorf("balance = %d, want 500", fresh.Points)
	}
}

func TestLedgerZeroEarnWritesRow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 1)
	booking := createCompletedBooking(t, db, user, roomType, 2, 0)
	ledger := NewLedger()

	if err := ledger.Earn(db, user, 0, &booking.ID, "points-paid stay"); err != nil {
		t.Fatalf("zero earn: %v", err)
	}

	earned, err := ledger.HasEarned(db, booking.ID)
	if err != nil {
		t.Fatalf("has earned: %v", err)
	}
	if !earned {
		t.Error("zero-amount earn must still mark the booking processed")
	}
}
