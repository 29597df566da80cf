package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/solara/internal/middleware"
	"github.com/example/solara/internal/services"
	"github.com/example/solara/internal/utils"
)

// MilestoneHandler serves the annual night-milestone endpoints.
type MilestoneHandler struct {
	milestones *services.MilestoneService
	bookings   *services.BookingService
}

// NewMilestoneHandler constructs a MilestoneHandler.
func NewMilestoneHandler(milestones *services.MilestoneService, bookings *services.BookingService) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones, bookings: bookings}
}

// Progress reports this year's nights and which milestones are claimed,
// claimable or still ahead. Completed stays are finalized first so the
// night count is current.
func (h *MilestoneHandler) Progress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if _, err := h.bookings.FinalizeCompletedStays(userID); err != nil {
		return err
	}

	progress, err := h.milestones.Progress(userID, utils.Today())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": progress})
}

type claimRequest struct {
	MilestoneNights int    `json:"milestone_nights"`
	RewardType      string `json:"reward_type"`
}

// Claim collects a reached milestone's reward, once.
func (h *MilestoneHandler) Claim(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req claimRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	reward, err := h.milestones.Claim(userID, req.MilestoneNights, req.RewardType)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    reward,
	})
}

// Vouchers lists the member's breakfast vouchers and remaining uses.
func (h *MilestoneHandler) Vouchers(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	vouchers, err := h.milestones.Vouchers(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": vouchers})
}
