package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/solara/internal/loyalty"
	"github.com/example/solara/internal/middleware"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/services"
	"github.com/example/solara/internal/utils"
)

// AccountHandler serves the member's account and loyalty views.
type AccountHandler struct {
	db        *gorm.DB
	ledger    *services.Ledger
	bookings  *services.BookingService
	retention *services.RetentionService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(db *gorm.DB, ledger *services.Ledger, bookings *services.BookingService, retention *services.RetentionService) *AccountHandler {
	return &AccountHandler{db: db, ledger: ledger, bookings: bookings, retention: retention}
}

// Overview returns the loyalty dashboard. Opening it settles all
// outstanding state: completed stays are finalized and the tier-year
// expiry check runs, so the numbers shown are always current.
func (h *AccountHandler) Overview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	finalize, err := h.bookings.FinalizeCompletedStays(userID)
	if err != nil {
		return err
	}

	retention, err := h.retention.Process(userID)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	var bookingStats struct {
		Count int64
		Spent float64
	}
	err = h.db.Model(&models.Booking{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_cost), 0) AS spent").
		Where("user_id = ? AND status = ?", userID, models.BookingConfirmed).
		Scan(&bookingStats).Error
	if err != nil {
		return err
	}

	totalEarned, err := h.ledger.SumByType(h.db, userID, models.PointsEarned)
	if err != nil {
		return err
	}
	totalRedeemed, err := h.ledger.SumByType(h.db, userID, models.PointsRedeemed)
	if err != nil {
		return err
	}

	tier := loyalty.ParseTier(user.MembershipLevel)
	next := tier.NextTier()

	tierInfo := fiber.Map{
		"tier":       tier.String(),
		"multiplier": tier.Multiplier(),
		"benefits":   tier.Benefits(),
	}
	if next != tier {
		tierInfo["next_tier"] = next.String()
		tierInfo["points_to_next_tier"] = loyalty.PointsToNextTier(tier, user.LifetimePoints)
	}
	if user.TierExpiryDate != nil {
		tierInfo["tier_expiry_date"] = user.TierExpiryDate.Format(utils.DateLayout)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":      userSummary(&user),
			"tier":      tierInfo,
			"retention": retention,
			"stats": fiber.Map{
				"points":              user.Points,
				"lifetime_points":     user.LifetimePoints,
				"nights_stayed":       user.NightsStayed,
				"current_year_nights": user.CurrentYearNights,
				"current_year_points": user.CurrentYearPoints,
				"confirmed_bookings":  bookingStats.Count,
				"total_spent":         bookingStats.Spent,
				"stay_points_earned":  totalEarned,
				"points_redeemed":     -totalRedeemed,
			},
			"finalized": fiber.Map{
				"points_awarded": finalize.PointsAwarded,
				"nights_added":   finalize.NightsAdded,
				"tier_upgraded":  finalize.TierUpgraded,
			},
		},
	})
}

// ListTransactions returns the member's points ledger, newest first.
func (h *AccountHandler) ListTransactions(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pagination := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.PointsTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return err
	}

	var transactions []models.PointsTransaction
	err := h.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&transactions).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    transactions,
		"meta": fiber.Map{
			"page":  pagination.Page,
			"limit": pagination.Limit,
			"total": total,
		},
	})
}

type updateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
	Birthday   *string `json:"birthday"`
}

// UpdateProfile patches the member's contact details. Loyalty state is
// never writable from here.
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{}
	setIfPresent(updates, "first_name", req.FirstName)
	setIfPresent(updates, "last_name", req.LastName)
	setIfPresent(updates, "phone", req.Phone)
	setIfPresent(updates, "address", req.Address)
	setIfPresent(updates, "city", req.City)
	setIfPresent(updates, "country", req.Country)
	setIfPresent(updates, "postal_code", req.PostalCode)
	if req.Birthday != nil {
		if *req.Birthday == "" {
			updates["birthday"] = nil
		} else {
			birthday, err := time.Parse(utils.DateLayout, *req.Birthday)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid birthday, expected YYYY-MM-DD")
			}
			updates["birthday"] = birthday
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			return err
		}
	}

	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

func setIfPresent(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}
