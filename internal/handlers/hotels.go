package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/loyalty"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/pricing"
)

// HotelHandler serves the browse endpoints: brands, destinations, hotel
// and room type detail.
type HotelHandler struct {
	db *gorm.DB
}

// NewHotelHandler constructs a HotelHandler.
func NewHotelHandler(db *gorm.DB) *HotelHandler {
	return &HotelHandler{db: db}
}

// ListBrands returns all brands with their hotel counts.
func (h *HotelHandler) ListBrands(c *fiber.Ctx) error {
	var brands []models.Brand
	if err := h.db.Order("name asc").Find(&brands).Error; err != nil {
		return err
	}

	data := make([]fiber.Map, 0, len(brands))
	for i := range brands {
		var count int64
		if err := h.db.Model(&models.Hotel{}).
			Where("brand_id = ?", brands[i].ID).
			Count(&count).Error; err != nil {
			return err
		}
		data = append(data, fiber.Map{
			"brand":       brands[i],
			"hotel_count": count,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ListDestinations returns the cities that have hotels, with counts.
func (h *HotelHandler) ListDestinations(c *fiber.Ctx) error {
	var destinations []struct {
		City  string `json:"city"`
		Count int64  `json:"hotel_count"`
	}
	err := h.db.Model(&models.Hotel{}).
		Select("city, COUNT(*) AS count").
		Group("city").
		Order("city asc").
		Scan(&destinations).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": destinations})
}

// ListHotels returns hotels, optionally filtered by city or brand.
func (h *HotelHandler) ListHotels(c *fiber.Ctx) error {
	query := h.db.Preload("Brand").Order("name asc")

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if brandID := c.Query("brand_id"); brandID != "" {
		id, err := uuid.Parse(brandID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid brand id")
		}
		query = query.Where("brand_id = ?", id)
	}

	var hotels []models.Hotel
	if err := query.Find(&hotels).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": hotels})
}

// GetHotel returns one hotel with its room types, reviews and rating.
func (h *HotelHandler) GetHotel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid hotel id")
	}

	var hotel models.Hotel
	err = h.db.Preload("Brand").
		Preload("RoomTypes.Amenities").
		Preload("Reviews.User").
		First(&hotel, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "hotel not found")
		}
		return err
	}

	var rating struct {
		Avg   float64
		Count int64
	}
	err = h.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("hotel_id = ?", id).
		Scan(&rating).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"hotel":        hotel,
			"avg_rating":   rating.Avg,
			"review_count": rating.Count,
		},
	})
}

// GetRoomType returns room type detail with the estimated points per
// night for every tier, so guests can see what an upgrade is worth.
func (h *HotelHandler) GetRoomType(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid room type id")
	}

	var roomType models.RoomType
	err = h.db.Preload("Hotel.Brand").Preload("Amenities").
		First(&roomType, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "room type not found")
		}
		return err
	}

	tiers := []loyalty.Tier{
		loyalty.ClubMember,
		loyalty.SilverElite,
		loyalty.GoldElite,
		loyalty.DiamondElite,
		loyalty.PlatinumElite,
	}
	estimates := make([]fiber.Map, 0, len(tiers))
	for _, tier := range tiers {
		estimates = append(estimates, fiber.Map{
			"tier":             tier.String(),
			"points_per_night": pricing.EstimatedPointsPerNight(roomType.PricePerNight, tier),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"room_type":       roomType,
			"points_estimate": estimates,
		},
	})
}
