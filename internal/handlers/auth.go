package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/solara/internal/config"
	"github.com/example/solara/internal/limiter"
	"github.com/example/solara/internal/models"
	"github.com/example/solara/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	attempts *limiter.LoginLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, attempts *limiter.LoginLimiter) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, attempts: attempts}
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Register creates a new member account with a fresh member number.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "an account with this email already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	memberNumber, err := h.generateMemberNumber()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate member number")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		MemberNumber: memberNumber,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    userSummary(&user),
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing member. Failed attempts are counted
// per email; past the limit the account is locked for the window.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := c.Context()
	if h.attempts.Blocked(ctx, req.Email) {
		return fiber.NewError(fiber.StatusTooManyRequests, "too many failed attempts, try again later")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return h.failedLogin(c, req.Email)
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return h.failedLogin(c, req.Email)
	}

	h.attempts.Reset(ctx, req.Email)

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userSummary(&user),
		"token":   token,
	})
}

func (h *AuthHandler) failedLogin(c *fiber.Ctx, email string) error {
	blocked, err := h.attempts.RecordFailure(c.Context(), email)
	if err == nil && blocked {
		return fiber.NewError(fiber.StatusTooManyRequests, "too many failed attempts, try again later")
	}
	return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
}

func userSummary(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":               user.ID,
		"first_name":       user.FirstName,
		"last_name":        user.LastName,
		"email":            user.Email,
		"member_number":    user.MemberNumber,
		"membership_level": user.MembershipLevel,
		"points":           user.Points,
	}
}

// generateMemberNumber issues an unused SR-prefixed 9-digit number.
func (h *AuthHandler) generateMemberNumber() (string, error) {
	max := big.NewInt(1_000_000_000)
	for i := 0; i < 5; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("SR%09d", n.Int64())

		var count int64
		if err := h.db.Model(&models.User{}).
			Where("member_number = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique member number")
}
