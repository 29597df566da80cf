package services

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/solara/internal/database"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:    "Ada",
		LastName:     "Meyer",
		Email:        "ada@example.com",
		MemberNumber: "SR000000001",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestRoomType(t *testing.T, db *gorm.DB, pricePerNight float64, inventory int) *models.RoomType {
	t.Helper()

	hotel := &models.Hotel{
		Name:           "Solara Grand",
		City:           "Lisbon",
		BreakfastPrice: 18,
	}
	if err := db.Create(hotel).Error; err != nil {
		t.Fatalf("create test hotel: %v", err)
	}

	roomType := &models.RoomType{
		HotelID:       hotel.ID,
		Name:          "Deluxe King",
		Capacity:      2,
		PricePerNight: pricePerNight,
		Inventory:     inventory,
	}
	if err := db.Create(roomType).Error; err != nil {
		t.Fatalf("create test room type: %v", err)
	}
	return roomType
}

// createCompletedBooking inserts a CONFIRMED stay that checked out
// `nights` nights ago spanning `nights` nights, ready for finalize.
func createCompletedBooking(t *testing.T, db *gorm.DB, user *models.User, roomType *models.RoomType, nights, pointsEarned int) *models.Booking {
	t.Helper()

	today := utils.Today()
	booking := &models.Booking{
		UserID:       user.ID,
		RoomTypeID:   roomType.ID,
		CheckIn:      today.AddDate(0, 0, -2*nights),
		CheckOut:     today.AddDate(0, 0, -nights),
		RoomsCount:   1,
		Status:       models.BookingConfirmed,
		PointsEarned: pointsEarned,
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("create completed booking: %v", err)
	}
	return booking
}

func reloadUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()

	var fresh models.User
	if err := db.First(&fresh, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &fresh
}

func futureDate(days int) time.Time {
	return utils.Today().AddDate(0, 0, days)
}
