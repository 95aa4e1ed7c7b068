package handler

import (
	"github.com/gin-gonic/gin"
	lotapp "github.com/trucklot/backend/internal/application/lot"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
)

// TruckHandler handles truck endpoints
type TruckHandler struct {
	BaseHandler
	truckService *lotapp.TruckService
}

// NewTruckHandler creates a new TruckHandler
func NewTruckHandler(truckService *lotapp.TruckService) *TruckHandler {
	return &TruckHandler{truckService: truckService}
}

// Create handles POST /trucks
func (h *TruckHandler) Create(c *gin.Context) {
	var req lotapp.CreateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	truck, err := h.truckService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, truck)
}

// GetByID handles GET /trucks/:id
func (h *TruckHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	truck, err := h.truckService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, truck)
}

// List handles GET /trucks?customer_id=&q=
func (h *TruckHandler) List(c *gin.Context) {
	customerID, ok := h.optionalQueryID(c, "customer_id")
	if !ok {
		return
	}

	trucks, err := h.truckService.List(c.Request.Context(), customerID, c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trucks)
}

// Delete handles DELETE /trucks/:id
func (h *TruckHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.truckService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
