package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/loyalty"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/pricing"
	"github.com/example/solara/internal/utils"
)

// BookingService drives the booking lifecycle: create, cancel, and the
// lazy post-stay finalize. Each entry point is a single database
// transaction; the room type and user rows are locked so concurrent
// requests cannot oversell inventory or double-spend points.
type BookingService struct {
	db           *gorm.DB
	ledger       *Ledger
	availability *AvailabilityService
	notifier     *TelegramService
}

// NewBookingService constructs a BookingService.
func NewBookingService(db *gorm.DB, ledger *Ledger, availability *AvailabilityService, notifier *TelegramService) *BookingService {
	return &BookingService{db: db, ledger: ledger, availability: availability, notifier: notifier}
}

// CreateBookingParams carries everything needed to confirm a reservation.
type CreateBookingParams struct {
	RoomTypeID         uuid.UUID
	CheckIn            time.Time
	CheckOut           time.Time
	RoomsCount         int
	BreakfastIncluded  bool
	BreakfastVoucherID *uuid.UUID
	PayWithPoints      bool
	PaymentMethod      string
}

// CreateResult reports the confirmed booking and whether confirming it
// upgraded the guest's tier (notification only, no functional effect).
type CreateResult struct {
	Booking      *models.Booking
	TierUpgraded bool
}

// Create validates, prices and persists a booking. Billing fields are
// snapshotted from the quote; points are computed now but awarded after
// the stay. Everything happens in one transaction, so a failed points
// debit can never leave a half-committed booking behind.
func (s *BookingService) Create(userID uuid.UUID, params CreateBookingParams) (*CreateResult, error) {
	today := utils.Today()
	checkIn := utils.DateOnly(params.CheckIn)
	checkOut := utils.DateOnly(params.CheckOut)

	if checkIn.Before(today) {
		return nil, validationf("cannot book dates in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, validationf("check-out date must be after check-in date")
	}
	if params.RoomsCount < 1 {
		return nil, validationf("rooms count must be at least 1")
	}

	var (
		booking  models.Booking
		upgraded bool
		user     models.User
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the room type row for the duration of the
		// count-then-insert, closing the oversell window between two
		// concurrent bookings of the last unit.
		var roomType models.RoomType
		if err := lockForUpdate(tx).
			First(&roomType, "id = ?", params.RoomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var hotel models.Hotel
		if err := tx.First(&hotel, "id = ?", roomType.HotelID).Error; err != nil {
			return err
		}

		available, err := s.availability.AvailableRooms(tx, &roomType, checkIn, checkOut)
		if err != nil {
			return err
		}
		if available < params.RoomsCount {
			return ErrSoldOut
		}

		if err := lockForUpdate(tx).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		tier := loyalty.ParseTier(user.MembershipLevel)

		nights := utils.Nights(checkIn, checkOut)
		quote := pricing.Compute(roomType.PricePerNight, nights, params.RoomsCount, tier)

		var voucher *models.MilestoneReward
		if params.BreakfastIncluded {
			quote.AddBreakfast(hotel.BreakfastPrice)
			if params.BreakfastVoucherID != nil {
				voucher, err = s.consumeVoucher(tx, userID, *params.BreakfastVoucherID, params.RoomsCount)
				if err != nil {
					return err
				}
				quote.RedeemBreakfastPerk()
			}
		}

		booking = models.Booking{
			UserID:                userID,
			RoomTypeID:            roomType.ID,
			CheckIn:               checkIn,
			CheckOut:              checkOut,
			RoomsCount:            params.RoomsCount,
			Status:                models.BookingConfirmed,
			BaseRate:              quote.BaseRate,
			Subtotal:              quote.Subtotal,
			Taxes:                 quote.Taxes,
			Fees:                  quote.Fees,
			BreakfastIncluded:     params.BreakfastIncluded,
			BreakfastPricePerRoom: hotel.BreakfastPrice,
			PaymentMethod:         params.PaymentMethod,
		}
		if voucher != nil {
			booking.BreakfastVoucherID = &voucher.ID
		}

		if params.PayWithPoints {
			needed := quote.PayWithPoints()
			booking.PointsUsed = needed
		}
		booking.TotalCost = quote.FinalTotal
		booking.PointsEarned = quote.PointsEarned

		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if params.PayWithPoints {
			description := fmt.Sprintf("Points payment for stay at %s", hotel.Name)
			if err := s.ledger.Redeem(tx, &user, booking.PointsUsed, &booking.ID, description); err != nil {
				return err
			}
		}

		upgraded = loyalty.ApplyTier(&user, today)
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifyBooking(booking, user, upgraded)
	}

	return &CreateResult{Booking: &booking, TierUpgraded: upgraded}, nil
}

// consumeVoucher burns rooms-count breakfasts from a milestone voucher
// owned by the user.
func (s *BookingService) consumeVoucher(tx *gorm.DB, userID, voucherID uuid.UUID, roomsCount int) (*models.MilestoneReward, error) {
	var voucher models.MilestoneReward
	err := lockForUpdate(tx).
		First(&voucher, "id = ? AND user_id = ?", voucherID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if voucher.RewardType != models.RewardBreakfast {
		return nil, validationf("reward is not a breakfast voucher")
	}
	if voucher.AvailableBreakfasts() < roomsCount {
		return nil, validationf("voucher has %d breakfasts left, %d needed",
			voucher.AvailableBreakfasts(), roomsCount)
	}

	voucher.BreakfastsUsed += roomsCount
	if err := tx.Model(&voucher).Update("breakfasts_used", voucher.BreakfastsUsed).Error; err != nil {
		return nil, err
	}
	return &voucher, nil
}

// Cancel moves a booking to CANCELLED, refunding any points payment and
// returning consumed voucher breakfasts. Cancelling an already-cancelled
// booking is a no-op reported as success. Points earned from the booking
// are not clawed back.
func (s *BookingService) Cancel(userID, bookingID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := lockForUpdate(tx).
			First(&booking, "id = ? AND user_id = ?", bookingID, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if booking.Status == models.BookingCancelled {
			return nil
		}

		if booking.PointsUsed > 0 {
			var user models.User
			if err := lockForUpdate(tx).
				First(&user, "id = ?", userID).Error; err != nil {
				return err
			}
			description := fmt.Sprintf("Refund for cancelled booking %s", booking.ID)
			if err := s.ledger.Refund(tx, &user, booking.PointsUsed, &booking.ID, description); err != nil {
				return err
			}
		}

		if booking.BreakfastVoucherID != nil {
			if err := s.restoreVoucher(tx, *booking.BreakfastVoucherID, booking.RoomsCount); err != nil {
				return err
			}
		}

		return tx.Model(&booking).Update("status", models.BookingCancelled).Error
	})
}

// restoreVoucher gives back breakfasts consumed by a cancelled booking,
// flooring at zero.
func (s *BookingService) restoreVoucher(tx *gorm.DB, voucherID uuid.UUID, roomsCount int) error {
	var voucher models.MilestoneReward
	err := lockForUpdate(tx).
		First(&voucher, "id = ?", voucherID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	used := voucher.BreakfastsUsed - roomsCount
	if used < 0 {
		used = 0
	}
	return tx.Model(&voucher).Update("breakfasts_used", used).Error
}

// FinalizeResult summarizes one finalize pass.
type FinalizeResult struct {
	PointsAwarded int
	NightsAdded   int
	TierUpgraded  bool
}

// FinalizeCompletedStays processes the user's CONFIRMED bookings whose
// check-out has passed: counts the nights, awards the stored points
// through the ledger, rolls both into the tier-year counters when the
// stay falls inside the window, and recomputes the tier. An EARNED ledger
// row marks a booking processed, so running this twice, or from two
// requests at once, can never double-count; the partial unique index on
// (booking_id, EARNED) backs that up at the storage layer.
func (s *BookingService) FinalizeCompletedStays(userID uuid.UUID) (*FinalizeResult, error) {
	today := utils.Today()
	result := &FinalizeResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockForUpdate(tx).
			First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var completed []models.Booking
		err := tx.Preload("RoomType.Hotel").
			Where("user_id = ? AND status = ? AND check_out <= ?",
				userID, models.BookingConfirmed, today).
			Find(&completed).Error
		if err != nil {
			return err
		}

		for i := range completed {
			booking := &completed[i]

			processed, err := s.ledger.HasEarned(tx, booking.ID)
			if err != nil {
				return err
			}
			if processed {
				continue
			}

			nights := booking.Nights()
			user.NightsStayed += nights
			result.NightsAdded += nights
			result.PointsAwarded += booking.PointsEarned

			if inTierYear(&user, booking.CheckOut) {
				user.CurrentYearNights += nights
				user.CurrentYearPoints += booking.PointsEarned
			}

			hotelName := "hotel"
			if booking.RoomType != nil && booking.RoomType.Hotel != nil {
				hotelName = booking.RoomType.Hotel.Name
			}
			description := fmt.Sprintf("Stay at %s - %d night(s)", hotelName, nights)
			if err := s.ledger.Earn(tx, &user, booking.PointsEarned, &booking.ID, description); err != nil {
				return err
			}
		}

		if result.NightsAdded > 0 || result.PointsAwarded > 0 {
			result.TierUpgraded = loyalty.ApplyTier(&user, today)
			return tx.Save(&user).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// inTierYear reports whether a stay's check-out falls inside the user's
// active retention window.
func inTierYear(user *models.User, checkOut time.Time) bool {
	if user.TierEarnedDate == nil {
		return false
	}
	if checkOut.Before(*user.TierEarnedDate) {
		return false
	}
	if user.TierExpiryDate != nil && checkOut.After(*user.TierExpiryDate) {
		return false
	}
	return true
}

// ListBookings returns the user's bookings, newest check-in first.
func (s *BookingService) ListBookings(userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Preload("RoomType.Hotel").
		Where("user_id = ?", userID).
		Order("check_in desc").
		Find(&bookings).Error
	return bookings, err
}

// GetBooking loads a single booking owned by the user.
func (s *BookingService) GetBooking(userID, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Preload("RoomType.Hotel").
		First(&booking, "id = ? AND user_id = ?", bookingID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) notifyBooking(booking models.Booking, user models.User, upgraded bool) {
	hotelName := ""
	var roomType models.RoomType
	if err := s.db.Preload("Hotel").First(&roomType, "id = ?", booking.RoomTypeID).Error; err == nil && roomType.Hotel != nil {
		hotelName = roomType.Hotel.Name
	}

	notification := BookingNotification{
		BookingID:  booking.ID.String(),
		HotelName:  hotelName,
		GuestName:  fmt.Sprintf("%s %s", user.FirstName, user.LastName),
		CheckIn:    booking.CheckIn.Format(utils.DateLayout),
		CheckOut:   booking.CheckOut.Format(utils.DateLayout),
		RoomsCount: booking.RoomsCount,
		TotalCost:  booking.TotalCost,
		PointsUsed: booking.PointsUsed,
	}
	if err := s.notifier.NotifyNewBooking(notification); err != nil {
		log.Printf("[Booking] Telegram notification failed: %v", err)
	}

	if upgraded {
		if err := s.notifier.NotifyTierUpgrade(notification.GuestName, user.MembershipLevel); err != nil {
			log.Printf("[Booking] Tier upgrade notification failed: %v", err)
		}
	}
}
