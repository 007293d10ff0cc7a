package handlers

import (
	"github.com/gin-gonic/gin"

	"storedesk/internal/domain/cashflow"
	"storedesk/internal/infrastructure/http/v1/dto"
)

// CashflowHandler lists the cash register.
type CashflowHandler struct {
	*BaseHandler
	service *cashflow.Service
}

// NewCashflowHandler creates a new cash-flow handler.
func NewCashflowHandler(base *BaseHandler, service *cashflow.Service) *CashflowHandler {
	return &CashflowHandler{BaseHandler: base, service: service}
}

// List handles GET /cashflow. The status parameter selects a direction
// ("thu" or "chi").
func (h *CashflowHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(result, dto.Same[*cashflow.Entry]))
}
