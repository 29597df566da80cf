package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/solara/internal/middleware"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

// PaymentHandler manages stored cards. Only card metadata is kept; no
// charges are ever made.
type PaymentHandler struct {
	db *gorm.DB
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// List returns the member's stored cards, default first.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var methods []models.PaymentMethod
	err := h.db.Where("user_id = ?", userID).
		Order("is_default desc, created_at desc").
		Find(&methods).Error
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": methods})
}

type addCardRequest struct {
	CardNumber     string `json:"card_number"`
	ExpiryMonth    string `json:"expiry_month"`
	ExpiryYear     string `json:"expiry_year"`
	CardholderName string `json:"cardholder_name"`
	SetDefault     bool   `json:"set_default"`
}

// Add stores a new card after a Luhn check. The full number is
// discarded; only the network and last four digits are persisted.
func (h *PaymentHandler) Add(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req addCardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	number := utils.NormalizeCardNumber(req.CardNumber)
	if !utils.ValidCardNumber(number) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid card number")
	}
	if req.ExpiryMonth == "" || req.ExpiryYear == "" {
		return fiber.NewError(fiber.StatusBadRequest, "card expiry is required")
	}

	var count int64
	if err := h.db.Model(&models.PaymentMethod{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}

	method := models.PaymentMethod{
		UserID:         userID,
		CardType:       utils.CardType(number),
		Last4:          utils.CardLast4(number),
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		CardholderName: req.CardholderName,
		IsDefault:      req.SetDefault || count == 0,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			if err := tx.Model(&models.PaymentMethod{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&method).Error
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    method,
	})
}

// SetDefault marks one stored card as the default.
func (h *PaymentHandler) SetDefault(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	methodID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment method id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.First(&method, "id = ? AND user_id = ?", methodID, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "payment method not found")
			}
			return err
		}

		if err := tx.Model(&models.PaymentMethod{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&method).Update("is_default", true).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// Delete removes a stored card.
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	methodID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment method id")
	}

	result := h.db.Where("id = ? AND user_id = ?", methodID, userID).
		Delete(&models.PaymentMethod{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "payment method not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
