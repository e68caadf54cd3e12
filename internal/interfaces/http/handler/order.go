package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	appintegration "github.com/orderbridge/backend/internal/application/integration"
)

// ImportedOrderFinder looks up orders that were already imported
type ImportedOrderFinder interface {
	GetImportedOrder(ctx context.Context, storeID, channableID int64) (*appintegration.ImportedOrderResponse, error)
}

// OrderHandler serves admin lookups of imported orders
type OrderHandler struct {
	BaseHandler
	orders ImportedOrderFinder
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders ImportedOrderFinder) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// GetImportedOrder godoc
// @ID           getImportedOrder
// @Summary      Get an imported order
// @Description  Returns the cart a Channable order was imported into, with a temporary link to the archived payload when available
// @Tags         orders
// @Produce      json
// @Param        store_id path int true "Store ID"
// @Param        channable_id path int true "Channable order ID"
// @Success      200 {object} APIResponse[appintegration.ImportedOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stores/{store_id}/orders/{channable_id} [get]
func (h *OrderHandler) GetImportedOrder(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}
	channableID, err := strconv.ParseInt(c.Param("channable_id"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid Channable order ID")
		return
	}

	order, err := h.orders.GetImportedOrder(c.Request.Context(), storeID, channableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
