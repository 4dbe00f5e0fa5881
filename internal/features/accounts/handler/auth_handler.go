package handler

import (
	"errors"

	"uza-logistics/internal/features/accounts/session"
	"uza-logistics/internal/store"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves the demo login/logout cache. There is no credential
// check here: the demo signs in as one of the seeded users by id.
type AuthHandler struct {
	store    *store.Store
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s *store.Store, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{store: s, sessions: sessions}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// LoginRequest is the payload for signing in as a demo user.
type LoginRequest struct {
	UserID string `json:"userId"`
}

// Login godoc
// @Summary Sign in as one of the demo users
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "User to sign in as"
// @Success 200 {object} session.Session
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	snap := h.store.Snapshot()
	for _, user := range snap.Users {
		if user.ID != req.UserID {
			continue
		}

		sess, err := h.sessions.Login(c.Context(), user)
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, session.ErrInactiveUser) {
				status = fiber.StatusConflict
			}
			return c.Status(status).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID(c),
			})
		}
		return c.JSON(sess)
	}

	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Message: "user not found",
		RayID:   rayID(c),
	})
}

// Logout godoc
// @Summary Clear the cached session
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary Get the current session
// @Tags auth
// @Produce json
// @Success 200 {object} session.Session
// @Failure 404 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess, err := h.sessions.Current(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}
	if sess == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "no active session",
			RayID:   rayID(c),
		})
	}
	return c.JSON(sess)
}
