package handlers

import (
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/payment"
	"storedesk/internal/domain/reports"
	"storedesk/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles goods receipt requests.
type PurchaseHandler struct {
	*BaseHandler
	service  *purchase.Service
	payments *payment.Service
	reports  *reports.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service, payments *payment.Service, rep *reports.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: base,
		service:     service,
		payments:    payments,
		reports:     rep,
	}
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPurchaseResponse(p))
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), purchaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewPurchaseResponse(p))
}

// List handles GET /purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.reports.ListPurchases(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewPageResponse(page, dto.NewPurchaseResponse))
}

// Pay handles POST /purchases/:id/payment
func (h *PurchaseHandler) Pay(c *gin.Context) {
	purchaseID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.payments.PayPurchase(c.Request.Context(), purchaseID, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewPurchasePaymentResponse(result))
}
