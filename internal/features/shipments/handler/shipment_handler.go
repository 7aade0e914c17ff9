package handler

import (
	"strconv"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/server"
	"shipment-planner/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler handles HTTP requests for shipments.
type ShipmentHandler struct {
	shipments ports.ShipmentService
	layouts   ports.LayoutService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipments ports.ShipmentService, layouts ports.LayoutService) *ShipmentHandler {
	return &ShipmentHandler{
		shipments: shipments,
		layouts:   layouts,
	}
}

// ReassignTruckRequest represents the request body for a truck reassignment.
type ReassignTruckRequest struct {
	TruckTypeID int64 `json:"truck_type_id"`
}

func shipmentID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("shipment id must be a positive integer")
	}
	return id, nil
}

// GetDetail godoc
// @Summary Get a shipment
// @Description Returns the shipment with its truck, ordered route, per-stop ETAs and delivery orders.
// @Tags shipments
// @Produce json
// @Param id path int true "Shipment id"
// @Success 200 {object} server.Response{data=domain.Detail}
// @Failure 400 {object} server.Response
// @Failure 404 {object} server.Response
// @Router /shipments/{id} [get]
func (h *ShipmentHandler) GetDetail(c *fiber.Ctx) error {
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	detail, err := h.shipments.GetDetail(server.UserContext(c), id)
	if err != nil {
		return err
	}

	return server.OK(c, "shipment found", detail)
}

// GetLayout godoc
// @Summary Get the box layout of a shipment
// @Description Asks the layout engine to pack the shipment's boxes into its truck. Engine failures are returned inside data.
// @Tags shipments
// @Produce json
// @Param id path int true "Shipment id"
// @Success 200 {object} server.Response{data=domain.LayoutResult}
// @Failure 400 {object} server.Response
// @Failure 404 {object} server.Response
// @Router /shipments/{id}/layout [get]
func (h *ShipmentHandler) GetLayout(c *fiber.Ctx) error {
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	result, err := h.layouts.GetLayout(server.UserContext(c), id)
	if err != nil {
		return err
	}

	return server.OK(c, "layout computed", result)
}

// Save godoc
// @Summary Save a shipment
// @Description Moves a draft shipment and its delivery orders to RUNNING. Saving twice has no further effect.
// @Tags shipments
// @Produce json
// @Param num path string true "Shipment number, e.g. SP-0001"
// @Success 200 {object} server.Response{data=domain.Shipment}
// @Failure 404 {object} server.Response
// @Failure 409 {object} server.Response
// @Router /shipments/{num}/save [patch]
func (h *ShipmentHandler) Save(c *fiber.Ctx) error {
	shipment, err := h.shipments.Save(server.UserContext(c), c.Params("num"))
	if err != nil {
		return err
	}

	return server.OK(c, "shipment saved", shipment)
}

// ReassignTruck godoc
// @Summary Reassign the truck of a shipment
// @Description Binds an available truck of the requested type and releases the previous truck.
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path int true "Shipment id"
// @Param request body ReassignTruckRequest true "Target truck type"
// @Success 200 {object} server.Response{data=domain.Detail}
// @Failure 400 {object} server.Response
// @Failure 404 {object} server.Response
// @Failure 409 {object} server.Response
// @Router /shipments/{id}/truck [patch]
func (h *ShipmentHandler) ReassignTruck(c *fiber.Ctx) error {
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	var req ReassignTruckRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	detail, err := h.shipments.ReassignTruck(server.UserContext(c), id, req.TruckTypeID)
	if err != nil {
		return err
	}

	return server.OK(c, "truck reassigned", detail)
}
