package handler

import (
	"errors"

	accounts "uza-logistics/internal/features/accounts/domain"
	notifdomain "uza-logistics/internal/features/notifications/domain"
	"uza-logistics/internal/store"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler serves the per-role notification feed.
type NotificationHandler struct {
	store *store.Store
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(s *store.Store) *NotificationHandler {
	return &NotificationHandler{store: s}
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

// MarkReadRequest is the payload for acknowledging a role's notifications.
type MarkReadRequest struct {
	Role string `json:"role"`
}

// List godoc
// @Summary List notifications targeting a role, newest first
// @Tags notifications
// @Produce json
// @Param role query string true "Role (client, warehouse, admin)"
// @Success 200 {array} notifdomain.Notification
// @Failure 400 {object} ErrorResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	role, err := accounts.ParseRole(c.Query("role"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "role query parameter must be one of client, warehouse, admin",
			RayID:   rayID(c),
		})
	}

	feed := h.store.NotificationsFor(role)
	if feed == nil {
		feed = []notifdomain.Notification{}
	}
	return c.JSON(feed)
}

// MarkRead godoc
// @Summary Mark all of a role's notifications as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body MarkReadRequest true "Role to acknowledge"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /notifications/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	role, err := accounts.ParseRole(req.Role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "role must be one of client, warehouse, admin",
			RayID:   rayID(c),
		})
	}

	if err := h.store.MarkNotificationsRead(c.Context(), role); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, store.ErrPersistFailed) {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
