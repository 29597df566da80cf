package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/middleware"
	"github.com/example/solara/internal/models"
)

// ReviewHandler serves hotel review endpoints.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ListForHotel returns a hotel's reviews, newest first.
func (h *ReviewHandler) ListForHotel(c *fiber.Ctx) error {
	hotelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hotel id")
	}

	var reviews []models.Review
	err = h.db.Preload("User").
		Where("hotel_id = ?", hotelID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": reviews})
}

type createReviewRequest struct {
	HotelID string `json:"hotel_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Create posts a review. A member may only review a hotel they have a
// completed stay at, and only once.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	hotelID, err := uuid.Parse(req.HotelID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hotel id")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	var stays int64
	err = h.db.Model(&models.Booking{}).
		Joins("JOIN room_types ON room_types.id = bookings.room_type_id").
		Where("bookings.user_id = ? AND bookings.status = ? AND room_types.hotel_id = ?",
			userID, models.BookingConfirmed, hotelID).
		Count(&stays).Error
	if err != nil {
		return err
	}
	if stays == 0 {
		return fiber.NewError(fiber.StatusForbidden, "only guests with a stay at this hotel can review it")
	}

	var existing int64
	err = h.db.Model(&models.Review{}).
		Where("user_id = ? AND hotel_id = ?", userID, hotelID).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return fiber.NewError(fiber.StatusConflict, "you have already reviewed this hotel")
	}

	review := models.Review{
		UserID:  userID,
		HotelID: hotelID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    review,
	})
}
