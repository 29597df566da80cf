package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

// AvailabilityService answers "how many rooms of this type are free for
// these dates". Availability is always re-derived from the booking table,
// never read from a cached counter, so cancellations can never drift out
// of sync.
type AvailabilityService struct {
	db *gorm.DB
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// AvailableRooms counts unbooked rooms of a type over [checkIn, checkOut).
// Intervals are half-open: a checkout on the day of a new check-in does
// not overlap. Cancelled bookings never count.
func (s *AvailabilityService) AvailableRooms(tx *gorm.DB, roomType *models.RoomType, checkIn, checkOut time.Time) (int, error) {
	var booked struct {
		Total int
	}
	err := tx.Model(&models.Booking{}).
		Select("COALESCE(SUM(rooms_count), 0) AS total").
		Where("room_type_id = ? AND status = ?", roomType.ID, models.BookingConfirmed).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Scan(&booked).Error
	if err != nil {
		return 0, err
	}
	return roomType.Inventory - booked.Total, nil
}

// SearchParams are the guest's search criteria.
type SearchParams struct {
	City        string
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
	RoomsNeeded int
	AmenityIDs  []uuid.UUID
	BrandIDs    []uuid.UUID
	SortBy      string
}

// SearchResult is one bookable room type with its hotel context.
type SearchResult struct {
	RoomType       models.RoomType `json:"room_type"`
	Hotel          models.Hotel    `json:"hotel"`
	Brand          *models.Brand   `json:"brand,omitempty"`
	AvailableRooms int             `json:"available_rooms"`
	Price          float64         `json:"price"`
	AvgRating      float64         `json:"avg_rating"`
	MatchCount     int             `json:"match_count"`
	TotalRequired  int             `json:"total_required"`
}

// Search finds room types in a city that fit the party size, have enough
// availability for the dates, and carry all required amenities.
func (s *AvailabilityService) Search(params SearchParams) ([]SearchResult, error) {
	today := utils.Today()
	// Allow yesterday to absorb timezone edge cases at the boundary.
	if params.CheckIn.Before(today.AddDate(0, 0, -1)) {
		return nil, validationf("check-in date cannot be in the past")
	}
	if !params.CheckOut.After(params.CheckIn) {
		return nil, validationf("check-out must be after check-in")
	}
	if params.Guests < 1 {
		params.Guests = 1
	}
	if params.RoomsNeeded < 1 {
		params.RoomsNeeded = 1
	}

	query := s.db.
		Joins("JOIN hotels ON hotels.id = room_types.hotel_id").
		Where("hotels.city = ? AND room_types.capacity >= ?", params.City, params.Guests).
		Preload("Amenities").
		Preload("Hotel.Brand")
	if len(params.BrandIDs) > 0 {
		query = query.Where("hotels.brand_id IN ?", params.BrandIDs)
	}

	var roomTypes []models.RoomType
	if err := query.Find(&roomTypes).Error; err != nil {
		return nil, err
	}

	ratings := map[uuid.UUID]float64{}
	results := make([]SearchResult, 0, len(roomTypes))

	for i := range roomTypes {
		rt := roomTypes[i]

		available, err := s.AvailableRooms(s.db, &rt, params.CheckIn, params.CheckOut)
		if err != nil {
			return nil, err
		}
		if available < params.RoomsNeeded {
			continue
		}

		matchCount, ok := matchAmenities(rt.Amenities, params.AmenityIDs)
		if !ok {
			continue
		}

		hotel := rt.Hotel
		if hotel == nil {
			continue
		}

		rating, cached := ratings[hotel.ID]
		if !cached {
			rating, err = s.averageRating(hotel.ID)
			if err != nil {
				return nil, err
			}
			ratings[hotel.ID] = rating
		}

		results = append(results, SearchResult{
			RoomType:       rt,
			Hotel:          *hotel,
			Brand:          hotel.Brand,
			AvailableRooms: available,
			Price:          rt.PricePerNight,
			AvgRating:      rating,
			MatchCount:     matchCount,
			TotalRequired:  len(params.AmenityIDs),
		})
	}

	sortResults(results, params.SortBy)
	return results, nil
}

// matchAmenities checks that every required amenity is present. With no
// requirement the room always matches and the match count is its full
// amenity count.
func matchAmenities(have []models.Amenity, required []uuid.UUID) (int, bool) {
	if len(required) == 0 {
		return len(have), true
	}

	haveSet := make(map[uuid.UUID]bool, len(have))
	for _, a := range have {
		haveSet[a.ID] = true
	}
	for _, id := range required {
		if !haveSet[id] {
			return 0, false
		}
	}
	return len(required), true
}

func (s *AvailabilityService) averageRating(hotelID uuid.UUID) (float64, error) {
	var result struct {
		Avg float64
	}
	err := s.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg").
		Where("hotel_id = ?", hotelID).
		Scan(&result).Error
	return result.Avg, err
}

// Sort orders accepted by Search.
const (
	SortBestMatch     = "best_match"
	SortLowestPrice   = "lowest_price"
	SortHighestRating = "highest_rating"
)

func sortResults(results []SearchResult, sortBy string) {
	switch sortBy {
	case SortLowestPrice:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Price < results[j].Price
		})
	case SortHighestRating:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].AvgRating > results[j].AvgRating
		})
	default: // best match: rating first, then price
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].AvgRating != results[j].AvgRating {
				return results[i].AvgRating > results[j].AvgRating
			}
			return results[i].Price < results[j].Price
		})
	}
}
