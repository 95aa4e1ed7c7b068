package handler

import (
	"github.com/gin-gonic/gin"
	lotapp "github.com/trucklot/backend/internal/application/lot"
	"github.com/trucklot/backend/internal/interfaces/http/middleware"
)

// ContractHandler handles contract endpoints
type ContractHandler struct {
	BaseHandler
	contractService *lotapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *lotapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// Create handles POST /contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req lotapp.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// GetByID handles GET /contracts/:id
func (h *ContractHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// List handles GET /contracts?customer_id=&active=true
func (h *ContractHandler) List(c *gin.Context) {
	customerID, ok := h.optionalQueryID(c, "customer_id")
	if !ok {
		return
	}
	activeOnly := c.Query("active") == "true"

	contracts, err := h.contractService.List(c.Request.Context(), customerID, activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contracts)
}

// SetActive handles PUT /contracts/:id/active
func (h *ContractHandler) SetActive(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req lotapp.SetContractActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.contractService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// End handles PUT /contracts/:id/end
func (h *ContractHandler) End(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req lotapp.EndContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	contract, err := h.contractService.End(c.Request.Context(), id, req.EndDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Delete handles DELETE /contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
