// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// ReadRouteHandler is implemented by every resource handler.
type ReadRouteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
}

// PartnerRouteHandler defines the routes shared by customers and suppliers.
type PartnerRouteHandler interface {
	ReadRouteHandler
	Create(c *gin.Context)
	Update(c *gin.Context)
	Adjustments(c *gin.Context)
}

// RegisterReadRoutes registers GET "" and GET "/:id".
func RegisterReadRoutes(group *gin.RouterGroup, handler ReadRouteHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
}

// RegisterPartnerRoutes registers the partner routes. Customers and suppliers
// share the handler type; the service bound to it decides the ledger.
//
// Usage:
//
//	handler := handlers.NewPartnerHandler(base, cfg.Services.Suppliers)
//	RegisterPartnerRoutes(api.Group("/suppliers"), handler)
func RegisterPartnerRoutes(group *gin.RouterGroup, handler PartnerRouteHandler) {
	RegisterReadRoutes(group, handler)
	group.POST("", handler.Create)
	group.PUT("/:id", handler.Update)
	group.GET("/:id/debt-adjustments", handler.Adjustments)
}
