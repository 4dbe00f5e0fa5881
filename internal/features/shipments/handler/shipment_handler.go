package handler

import (
	"errors"

	"uza-logistics/internal/features/shipments/domain"
	"uza-logistics/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler handles HTTP requests for the client and warehouse
// shipment flows. All logic lives in the store; handlers only bind, call,
// and map errors.
type ShipmentHandler struct {
	store *store.Store
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(s *store.Store) *ShipmentHandler {
	return &ShipmentHandler{store: s}
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

// fail maps store and domain errors onto HTTP statuses. Lifecycle guards are
// conflicts, validation problems are bad requests, and a failed persist is
// reported distinctly so the UI can say "the change was not saved" instead
// of a generic error.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrNotEditable),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDispatchRequired),
		errors.Is(err, domain.ErrNoProducts):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidShipment),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidDispatch):
		status = fiber.StatusBadRequest
	case errors.Is(err, store.ErrPersistFailed):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rayID(c),
	})
}

// CreateShipmentRequest is the payload for creating a draft shipment.
type CreateShipmentRequest struct {
	ClientName    string           `json:"clientName"`
	WarehouseName string           `json:"warehouseName"`
	Products      []domain.Product `json:"products"`
	Notes         string           `json:"notes"`
}

// EditShipmentRequest is the payload for editing a draft shipment.
type EditShipmentRequest struct {
	Products []domain.Product `json:"products"`
	Notes    string           `json:"notes"`
}

// ReceiveShipmentRequest is the payload for confirming warehouse receipt.
type ReceiveShipmentRequest struct {
	Remarks string   `json:"remarks"`
	Images  []string `json:"images"`
}

// UpdateStatusRequest is the payload for a single-step status advance.
type UpdateStatusRequest struct {
	Status domain.Status `json:"status"`
}

// Create godoc
// @Summary Create a draft shipment
// @Tags client
// @Accept json
// @Produce json
// @Param request body CreateShipmentRequest true "Shipment details"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Router /client/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var req CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	sh, err := h.store.CreateShipment(c.Context(), req.ClientName, req.WarehouseName, req.Products, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sh)
}

// Edit godoc
// @Summary Replace a draft shipment's products and notes
// @Tags client
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param request body EditShipmentRequest true "Replacement products and notes"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /client/shipments/{id} [put]
func (h *ShipmentHandler) Edit(c *fiber.Ctx) error {
	var req EditShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	sh, err := h.store.EditShipment(c.Context(), c.Params("id"), req.Products, req.Notes)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// Submit godoc
// @Summary Submit a draft shipment to the warehouse
// @Tags client
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /client/shipments/{id}/submit [post]
func (h *ShipmentHandler) Submit(c *fiber.Ctx) error {
	sh, err := h.store.SubmitShipment(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// ConfirmDelivery godoc
// @Summary Confirm delivery of an in-transit shipment
// @Tags client
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /client/shipments/{id}/deliver [post]
func (h *ShipmentHandler) ConfirmDelivery(c *fiber.Ctx) error {
	sh, err := h.store.AdvanceShipmentStatus(c.Context(), c.Params("id"), domain.StatusDelivered)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// Receive godoc
// @Summary Confirm warehouse receipt of a submitted shipment
// @Tags warehouse
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param request body ReceiveShipmentRequest true "Remarks and received-product images"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /warehouse/shipments/{id}/receive [post]
func (h *ShipmentHandler) Receive(c *fiber.Ctx) error {
	var req ReceiveShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	sh, err := h.store.ReceiveShipment(c.Context(), c.Params("id"), req.Remarks, req.Images)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// Dispatch godoc
// @Summary Dispatch a received shipment with transport details
// @Tags warehouse
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param request body domain.Dispatch true "Transport details"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /warehouse/shipments/{id}/dispatch [post]
func (h *ShipmentHandler) Dispatch(c *fiber.Ctx) error {
	var req domain.Dispatch
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	sh, err := h.store.DispatchShipment(c.Context(), c.Params("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// UpdateStatus godoc
// @Summary Advance a shipment one status step
// @Tags warehouse
// @Accept json
// @Produce json
// @Param id path string true "Shipment ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /warehouse/shipments/{id}/status [post]
func (h *ShipmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	sh, err := h.store.AdvanceShipmentStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// Get godoc
// @Summary Get one shipment by id
// @Tags shipments
// @Produce json
// @Param id path string true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 404 {object} ErrorResponse
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) Get(c *fiber.Ctx) error {
	sh, err := h.store.Shipment(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sh)
}

// List godoc
// @Summary List all shipments
// @Tags shipments
// @Produce json
// @Success 200 {array} domain.Shipment
// @Router /shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	snap := h.store.Snapshot()
	if snap.Shipments == nil {
		snap.Shipments = []domain.Shipment{}
	}
	return c.JSON(snap.Shipments)
}
