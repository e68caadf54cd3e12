package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	appintegration "github.com/orderbridge/backend/internal/application/integration"
)

// OrderImporter imports a Channable order into a cart
type OrderImporter interface {
	ImportOrder(ctx context.Context, req appintegration.ImportOrderRequest) (*appintegration.ImportOrderResult, error)
}

// ChannableOrderHandler receives orders pushed by Channable
type ChannableOrderHandler struct {
	BaseHandler
	importer OrderImporter
}

// NewChannableOrderHandler creates a new Channable order handler
func NewChannableOrderHandler(importer OrderImporter) *ChannableOrderHandler {
	return &ChannableOrderHandler{importer: importer}
}

// ImportOrder godoc
// @ID           importChannableOrder
// @Summary      Import a Channable order
// @Description  Reconciles the order lines against the catalog and stores them in a new cart.
// @Description  Orders with status "shipped" (or force_lvb=true) are fulfilled by the marketplace and never move local stock.
// @Tags         channable
// @Accept       json
// @Produce      json
// @Param        X-Channable-Token header string true "Webhook token"
// @Param        force_lvb query bool false "Treat the order as fulfilled by the marketplace"
// @Param        request body ChannableOrderRequest true "Channable order"
// @Success      201 {object} APIResponse[appintegration.ImportOrderResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /channable/orders [post]
func (h *ChannableOrderHandler) ImportOrder(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.HandleBindError(c, err)
		return
	}

	var req ChannableOrderRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	forceLVB := false
	if v := c.Query("force_lvb"); v != "" {
		forceLVB, err = strconv.ParseBool(v)
		if err != nil {
			h.BadRequest(c, "force_lvb must be a boolean")
			return
		}
	}

	result, err := h.importer.ImportOrder(c.Request.Context(), appintegration.ImportOrderRequest{
		Payload:  req.toPayload(),
		RawBody:  raw,
		ForceLVB: forceLVB,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
