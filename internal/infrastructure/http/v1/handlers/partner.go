package handlers

import (
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/catalogs/partner"
	"storedesk/internal/infrastructure/http/v1/dto"
)

// PartnerHandler serves customers or suppliers, depending on the service kind.
type PartnerHandler struct {
	*BaseHandler
	service *partner.Service
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(base *BaseHandler, service *partner.Service) *PartnerHandler {
	return &PartnerHandler{BaseHandler: base, service: service}
}

// Create handles POST /customers and POST /suppliers
func (h *PartnerHandler) Create(c *gin.Context) {
	var req dto.CreatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Update handles PUT /customers/:id and PUT /suppliers/:id
func (h *PartnerHandler) Update(c *gin.Context) {
	partnerID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePartnerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), partnerID, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, p)
}

// Get handles GET /customers/:id and GET /suppliers/:id
func (h *PartnerHandler) Get(c *gin.Context) {
	partnerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, p)
}

// List handles GET /customers and GET /suppliers
func (h *PartnerHandler) List(c *gin.Context) {
	var q dto.CatalogListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, dto.Same[*partner.Partner]))
}

// Adjustments handles GET /customers/:id/debt-adjustments
func (h *PartnerHandler) Adjustments(c *gin.Context) {
	partnerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	items, err := h.service.Adjustments(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if items == nil {
		items = []*partner.DebtAdjustment{}
	}
	h.OK(c, gin.H{"items": items})
}
