package handlers

import (
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/conversion"
	"storedesk/internal/domain/documents/quote"
	"storedesk/internal/domain/reports"
	"storedesk/internal/infrastructure/http/v1/dto"
)

// QuoteHandler handles quote requests.
type QuoteHandler struct {
	*BaseHandler
	service    *quote.Service
	conversion *conversion.Service
	reports    *reports.Service
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(base *BaseHandler, service *quote.Service, conv *conversion.Service, rep *reports.Service) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: base,
		service:     service,
		conversion:  conv,
		reports:     rep,
	}
}

// Create handles POST /quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// Get handles GET /quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}

	q, err := h.service.GetByID(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, q)
}

// Update handles PUT /quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.UpdateQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	q, err := h.service.Update(c.Request.Context(), quoteID, req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, q)
}

// Delete handles DELETE /quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), quoteID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List handles GET /quotes
func (h *QuoteHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := h.reports.ListQuotes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewPageResponse(page, dto.Same[*quote.Quote]))
}

// ToOrder handles POST /quotes/:id/to-order
func (h *QuoteHandler) ToOrder(c *gin.Context) {
	quoteID, ok := h.ParseID(c)
	if !ok {
		return
	}

	result, err := h.conversion.QuoteToOrder(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewQuoteConversionResponse(result))
}
