package handler

import (
	"strconv"

	"shipment-planner/internal/core/apperror"
	"shipment-planner/internal/core/server"
	"shipment-planner/internal/features/optimization/domain"
	"shipment-planner/internal/features/optimization/ports"

	"github.com/gofiber/fiber/v2"
)

// OptimizationHandler handles HTTP requests for optimization runs.
type OptimizationHandler struct {
	service ports.OptimizationService
}

// NewOptimizationHandler creates a new OptimizationHandler.
func NewOptimizationHandler(service ports.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{
		service: service,
	}
}

// PriorityRequest represents the request body for a priority optimization.
type PriorityRequest struct {
	DCID             int64   `json:"dc_id"`
	DeliveryOrderIDs []int64 `json:"delivery_orders_id"`
	Priority         string  `json:"priority"`
}

// RunPriority godoc
// @Summary Run a priority optimization
// @Description Asks the route optimizer to group delivery orders onto available trucks and stores every proposal as a draft shipment.
// @Tags optimization
// @Accept json
// @Produce json
// @Param dc_id header int false "Distribution center id, used when the body omits it"
// @Param request body PriorityRequest true "Optimization request"
// @Success 200 {object} server.Response{data=domain.RunResult}
// @Failure 400 {object} server.Response
// @Failure 404 {object} server.Response
// @Failure 409 {object} server.Response
// @Failure 502 {object} server.Response
// @Router /optimizations/priority [post]
func (h *OptimizationHandler) RunPriority(c *fiber.Ctx) error {
	var req PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if req.DCID == 0 {
		if raw := c.Get("dc_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return apperror.Validation("dc_id header must be an integer")
			}
			req.DCID = id
		}
	}

	result, err := h.service.Run(server.UserContext(c), domain.RunRequest{
		DCID:             req.DCID,
		DeliveryOrderIDs: req.DeliveryOrderIDs,
		Priority:         domain.Priority(req.Priority),
	})
	if err != nil {
		return err
	}

	return server.OK(c, "optimization finished", result)
}
