package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/solara/internal/services"
	"github.com/example/solara/internal/utils"
)

// SearchHandler serves the availability search.
type SearchHandler struct {
	availability *services.AvailabilityService
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(availability *services.AvailabilityService) *SearchHandler {
	return &SearchHandler{availability: availability}
}

// Search finds bookable room types for a city and date range.
// Query params: city, check_in, check_out, guests, rooms, amenities
// (comma-separated ids), brands (comma-separated ids), sort.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return fiber.NewError(fiber.StatusBadRequest, "city is required")
	}

	checkIn, err := utils.ParseDate(c.Query("check_in"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid check_in date, expected YYYY-MM-DD")
	}
	checkOut, err := utils.ParseDate(c.Query("check_out"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid check_out date, expected YYYY-MM-DD")
	}

	amenityIDs, err := parseUUIDList(c.Query("amenities"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid amenity id")
	}
	brandIDs, err := parseUUIDList(c.Query("brands"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid brand id")
	}

	params := services.SearchParams{
		City:        city,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      queryInt(c, "guests", 1),
		RoomsNeeded: queryInt(c, "rooms", 1),
		AmenityIDs:  amenityIDs,
		BrandIDs:    brandIDs,
		SortBy:      c.Query("sort", services.SortBestMatch),
	}

	results, err := h.availability.Search(params)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(results),
		"data":    results,
	})
}

func parseUUIDList(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	if parsed, err := strconv.Atoi(c.Query(key)); err == nil {
		return parsed
	}
	return fallback
}
