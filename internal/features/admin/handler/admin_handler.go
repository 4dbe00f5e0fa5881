package handler

import (
	"errors"

	accounts "uza-logistics/internal/features/accounts/domain"
	"uza-logistics/internal/features/accounts/session"
	notifdomain "uza-logistics/internal/features/notifications/domain"
	pricing "uza-logistics/internal/features/pricing/domain"
	"uza-logistics/internal/store"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin dashboard: pricing configuration, user
// status toggles, and the audit log.
type AdminHandler struct {
	store    *store.Store
	sessions *session.Manager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(s *store.Store, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{store: s, sessions: sessions}
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

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, accounts.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, pricing.ErrInvalidRules):
		status = fiber.StatusBadRequest
	case errors.Is(err, store.ErrPersistFailed):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rayID(c),
	})
}

// actor resolves the display name used for audit entries from the current
// session, falling back to a generic label.
func (h *AdminHandler) actor(c *fiber.Ctx) string {
	if h.sessions != nil {
		if sess, err := h.sessions.Current(c.Context()); err == nil && sess != nil {
			return sess.Name
		}
	}
	return "admin"
}

// GetPricing godoc
// @Summary Get the current pricing rules
// @Tags admin
// @Produce json
// @Success 200 {object} pricing.Rules
// @Router /admin/pricing [get]
func (h *AdminHandler) GetPricing(c *fiber.Ctx) error {
	return c.JSON(h.store.Snapshot().Pricing)
}

// UpdatePricing godoc
// @Summary Replace the pricing rules and recompute every shipment estimate
// @Tags admin
// @Accept json
// @Produce json
// @Param request body pricing.Rules true "New pricing rules"
// @Success 200 {object} pricing.Rules
// @Failure 400 {object} ErrorResponse
// @Router /admin/pricing [put]
func (h *AdminHandler) UpdatePricing(c *fiber.Ctx) error {
	var rules pricing.Rules
	if err := c.BodyParser(&rules); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	updated, err := h.store.UpdatePricing(c.Context(), rules, h.actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Success 200 {array} accounts.User
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	if snap.Users == nil {
		snap.Users = []accounts.User{}
	}
	return c.JSON(snap.Users)
}

// ToggleUser godoc
// @Summary Toggle a user's active flag
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} accounts.User
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id}/toggle [post]
func (h *AdminHandler) ToggleUser(c *fiber.Ctx) error {
	user, err := h.store.ToggleUserActive(c.Context(), c.Params("id"), h.actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// ListAudit godoc
// @Summary List the audit log, newest first
// @Tags admin
// @Produce json
// @Success 200 {array} notifdomain.AuditEvent
// @Router /admin/audit [get]
func (h *AdminHandler) ListAudit(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	if snap.Audit == nil {
		snap.Audit = []notifdomain.AuditEvent{}
	}
	return c.JSON(snap.Audit)
}
