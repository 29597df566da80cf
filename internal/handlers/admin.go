package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/services"
)

// AdminHandler serves staff-only endpoints.
type AdminHandler struct {
	db     *gorm.DB
	ledger *services.Ledger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, ledger *services.Ledger) *AdminHandler {
	return &AdminHandler{db: db, ledger: ledger}
}

type grantPointsRequest struct {
	UserID      string `json:"user_id"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// GrantPoints credits a goodwill bonus to a member's balance. The grant
// goes through the ledger like every other points movement.
func (h *AdminHandler) GrantPoints(c *fiber.Ctx) error {
	var req grantPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}
	if req.Points <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "points must be positive")
	}
	if req.Description == "" {
		req.Description = "Goodwill bonus"
	}

	var user models.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "user not found")
			}
			return err
		}
		return h.ledger.Bonus(tx, &user, req.Points, req.Description)
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user_id": user.ID,
			"points":  user.Points,
		},
	})
}

// DashboardStats returns aggregate program statistics.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalBookings int64
	if err := h.db.Model(&models.Booking{}).
		Where("status = ?", models.BookingConfirmed).
		Count(&totalBookings).Error; err != nil {
		return err
	}

	var totalHotels int64
	if err := h.db.Model(&models.Hotel{}).Count(&totalHotels).Error; err != nil {
		return err
	}

	var pointsOutstanding struct {
		Total int64
	}
	if err := h.db.Model(&models.User{}).
		Select("COALESCE(SUM(points), 0) AS total").
		Scan(&pointsOutstanding).Error; err != nil {
		return err
	}

	var byTier []struct {
		MembershipLevel string `json:"membership_level"`
		Count           int64  `json:"count"`
	}
	if err := h.db.Model(&models.User{}).
		Select("membership_level, COUNT(*) AS count").
		Group("membership_level").
		Scan(&byTier).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":        totalUsers,
			"total_bookings":     totalBookings,
			"total_hotels":       totalHotels,
			"points_outstanding": pointsOutstanding.Total,
			"members_by_tier":    byTier,
		},
	})
}
