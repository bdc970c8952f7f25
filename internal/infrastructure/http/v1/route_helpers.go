// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"gudang/internal/infrastructure/http/v1/middleware"
)

// Role names carried in JWT claims. Admins bypass every role check.
const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
}

// DocumentRouteHandler defines the interface for approval document handlers.
// All approval document handlers must implement these methods.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Restore(c *gin.Context)
	Approve(c *gin.Context)
	Reject(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// Reads are open to any authenticated user; writes require staff.
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", middleware.RequireRole(RoleStaff), handler.Create)
	group.PUT("/:id", middleware.RequireRole(RoleStaff), handler.Update)
	group.DELETE("/:id", middleware.RequireRole(RoleStaff), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequireRole(RoleStaff), handler.SetDeletionMark)
}

// RegisterDocumentRoutes registers CRUD + workflow routes for an
// approval document. Approve/reject and restore are manager-only;
// stock effects ride on those transitions.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", middleware.RequireRole(RoleStaff), handler.Create)
	group.PUT("/:id", middleware.RequireRole(RoleStaff), handler.Update)
	group.DELETE("/:id", middleware.RequireRole(RoleStaff), handler.Delete)
	group.POST("/:id/restore", middleware.RequireRole(RoleManager), handler.Restore)
	group.POST("/:id/approve", middleware.RequireRole(RoleManager), handler.Approve)
	group.POST("/:id/reject", middleware.RequireRole(RoleManager), handler.Reject)
}
