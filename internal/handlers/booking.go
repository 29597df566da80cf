package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/solara/internal/middleware"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/services"
	"github.com/example/solara/internal/utils"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	RoomTypeID         string `json:"room_type_id"`
	CheckIn            string `json:"check_in"`
	CheckOut           string `json:"check_out"`
	RoomsCount         int    `json:"rooms_count"`
	BreakfastIncluded  bool   `json:"breakfast_included"`
	BreakfastVoucherID string `json:"breakfast_voucher_id"`
	PayWithPoints      bool   `json:"pay_with_points"`
}

// Create confirms a new reservation.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	roomTypeID, err := uuid.Parse(req.RoomTypeID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid room type id")
	}
	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid check_in date, expected YYYY-MM-DD")
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid check_out date, expected YYYY-MM-DD")
	}

	params := services.CreateBookingParams{
		RoomTypeID:        roomTypeID,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		RoomsCount:        req.RoomsCount,
		BreakfastIncluded: req.BreakfastIncluded,
		PayWithPoints:     req.PayWithPoints,
		PaymentMethod:     "pay_now",
	}
	if req.PayWithPoints {
		params.PaymentMethod = "points"
	}
	if req.BreakfastVoucherID != "" {
		voucherID, err := uuid.Parse(req.BreakfastVoucherID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid voucher id")
		}
		params.BreakfastVoucherID = &voucherID
	}

	result, err := h.bookings.Create(userID, params)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"booking":       result.Booking,
			"tier_upgraded": result.TierUpgraded,
		},
	})
}

// Cancel marks a booking cancelled, refunding any points payment.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
	}

	if err := h.bookings.Cancel(userID, bookingID); err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListStays returns the member's bookings grouped into upcoming, past
// and cancelled. Completed stays are finalized first, so the past group
// always reflects awarded points.
func (h *BookingHandler) ListStays(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if _, err := h.bookings.FinalizeCompletedStays(userID); err != nil {
		return err
	}

	bookings, err := h.bookings.ListBookings(userID)
	if err != nil {
		return err
	}

	today := utils.Today()
	var upcoming, current, past, cancelled []models.Booking
	for _, booking := range bookings {
		switch {
		case booking.Status == models.BookingCancelled:
			cancelled = append(cancelled, booking)
		case booking.CheckIn.After(today):
			upcoming = append(upcoming, booking)
		case booking.CheckOut.After(today):
			current = append(current, booking)
		default:
			past = append(past, booking)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"upcoming":  upcoming,
			"current":   current,
			"past":      past,
			"cancelled": cancelled,
		},
	})
}

// GetBill returns the booking's itemized bill. Viewing the bill of a
// completed stay triggers the finalize pass.
func (h *BookingHandler) GetBill(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid booking id")
	}

	if _, err := h.bookings.FinalizeCompletedStays(userID); err != nil {
		return err
	}

	booking, err := h.bookings.GetBooking(userID, bookingID)
	if err != nil {
		return mapServiceError(err)
	}

	nights := booking.Nights()
	bill := fiber.Map{
		"booking_id":     booking.ID,
		"status":         booking.Status,
		"check_in":       booking.CheckIn.Format(utils.DateLayout),
		"check_out":      booking.CheckOut.Format(utils.DateLayout),
		"nights":         nights,
		"rooms_count":    booking.RoomsCount,
		"base_rate":      booking.BaseRate,
		"subtotal":       booking.Subtotal,
		"taxes":          booking.Taxes,
		"fees":           booking.Fees,
		"total":          booking.TotalCost,
		"payment_method": booking.PaymentMethod,
		"points_earned":  booking.PointsEarned,
		"points_used":    booking.PointsUsed,
	}
	if booking.BreakfastIncluded {
		bill["breakfast_price_per_room"] = booking.BreakfastPricePerRoom
		bill["breakfast_covered_by_voucher"] = booking.BreakfastVoucherID != nil
	}
	if booking.RoomType != nil {
		bill["room_type"] = booking.RoomType.Name
		if booking.RoomType.Hotel != nil {
			bill["hotel"] = booking.RoomType.Hotel.Name
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": bill})
}
