package handlers

import (
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/payment"
	"storedesk/internal/domain/reports"
	"storedesk/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles invoice requests. Invoices are created only by
// exporting an order.
type InvoiceHandler struct {
	*BaseHandler
	service  *invoice.Service
	payments *payment.Service
	reports  *reports.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, payments *payment.Service, rep *reports.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		payments:    payments,
		reports:     rep,
	}
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewInvoiceResponse(inv))
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.reports.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewPageResponse(page, dto.NewInvoiceResponse))
}

// Pay handles POST /invoices/:id/payment
func (h *InvoiceHandler) Pay(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.payments.PayInvoice(c.Request.Context(), invoiceID, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewInvoicePaymentResponse(result))
}
