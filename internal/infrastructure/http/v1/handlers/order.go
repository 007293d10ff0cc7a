package handlers

import (
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/conversion"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/reports"
	"storedesk/internal/infrastructure/http/v1/dto"
)

// OrderHandler handles order requests.
type OrderHandler struct {
	*BaseHandler
	service    *order.Service
	conversion *conversion.Service
	reports    *reports.Service
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *order.Service, conv *conversion.Service, rep *reports.Service) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		service:     service,
		conversion:  conv,
		reports:     rep,
	}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewOrderResponse(o))
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewOrderResponse(o))
}

// Update handles PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.Update(c.Request.Context(), orderID, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewOrderResponse(o))
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.reports.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewPageResponse(page, dto.NewOrderResponse))
}

// ToInvoice handles POST /orders/:id/to-invoice
func (h *OrderHandler) ToInvoice(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}
	// The body is optional: an empty export collects no further payment.
	var req dto.ExportOrderRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}

	result, err := h.conversion.OrderToInvoice(c.Request.Context(), orderID, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewInvoiceConversionResponse(result))
}
