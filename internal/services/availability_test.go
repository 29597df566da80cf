package services

import (
	"errors"
	"testing"

	"github.com/example/solara/internal/models"
)

func TestAvailableRoomsHalfOpenIntervals(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 3)
	availability := NewAvailabilityService(db)

	// Occupies the nights of day 10 and day 11.
	booking := &models.Booking{
		UserID:     user.ID,
		RoomTypeID: roomType.ID,
		CheckIn:    futureDate(10),
		CheckOut:   futureDate(12),
		RoomsCount: 2,
		Status:     models.BookingConfirmed,
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}

	cases := []struct {
		name           string
		checkIn, checkOut int
		want           int
	}{
		{"overlapping range", 11, 13, 1},
		{"identical range", 10, 12, 1},
		{"checkout day back-to-back", 12, 14, 3},
		{"ends on check-in day", 8, 10, 3},
		{"fully before", 5, 8, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := availability.AvailableRooms(db, roomType, futureDate(tc.checkIn), futureDate(tc.checkOut))
			if err != nil {
				t.Fatalf("available rooms: %v", err)
			}
			if got != tc.want {
				t.Errorf("available = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAvailableRoomsIgnoresCancelled(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	roomType := createTestRoomType(t, db, 100, 2)
	availability := NewAvailabilityService(db)

	booking := &models.Booking{
		UserID:     user.ID,
		RoomTypeID: roomType.ID,
		CheckIn:    futureDate(10),
		CheckOut:   futureDate(12),
		RoomsCount: 2,
		Status:     models.BookingCancelled,
	}
	if err := db.Create(booking).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}

	got, err := availability.AvailableRooms(db, roomType, futureDate(10), futureDate(12))
	if err != nil {
		t.Fatalf("available rooms: %v", err)
	}
	if got != 2 {
		t.Errorf("available = %d, want 2 after cancellation", got)
	}
}

func TestSearchFiltersAndSorts(t *testing.T) {
	db := setupTestDB(t)
	availability := NewAvailabilityService(db)

	hotel := &models.Hotel{Name: "Solara Harbor", City: "Porto"}
	if err := db.Create(hotel).Error; err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	cheap := &models.RoomType{HotelID: hotel.ID, Name: "Standard", Capacity: 2, PricePerNight: 90, Inventory: 2}
	pricey := &models.RoomType{HotelID: hotel.ID, Name: "Suite", Capacity: 4, PricePerNight: 240, Inventory: 1}
	small := &models.RoomType{HotelID: hotel.ID, Name: "Single", Capacity: 1, PricePerNight: 60, Inventory: 5}
	for _, rt := range []*models.RoomType{cheap, pricey, small} {
		if err := db.Create(rt).Error; err != nil {
			t.Fatalf("create room type: %v", err)
		}
	}

	results, err := availability.Search(SearchParams{
		City:     "Porto",
		CheckIn:  futureDate(5),
		CheckOut: futureDate(7),
		Guests:   2,
		SortBy:   SortLowestPrice,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	// The single room cannot fit two guests.
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].RoomType.Name != "Standard" {
		t.Errorf("first result = %q, want cheapest first", results[0].RoomType.Name)
	}
}

func TestSearchRejectsPastCheckIn(t *testing.T) {
	db := setupTestDB(t)
	availability := NewAvailabilityService(db)

	_, err := availability.Search(SearchParams{
		City:     "Porto",
		CheckIn:  futureDate(-10),
		CheckOut: futureDate(-8),
	})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("search in the past = %v, want validation error", err)
	}
}
