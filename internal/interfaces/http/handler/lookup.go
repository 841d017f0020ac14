package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/nantech/inventory/internal/application/catalog"
)

// LookupHandler serves categories and suppliers
type LookupHandler struct {
	BaseHandler
	lookupService *appcatalog.LookupService
}

// NewLookupHandler creates a new LookupHandler
func NewLookupHandler(lookupService *appcatalog.LookupService) *LookupHandler {
	return &LookupHandler{lookupService: lookupService}
}

// ListCategories handles GET /api/categories
func (h *LookupHandler) ListCategories(c *gin.Context) {
	categories, err := h.lookupService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// ListSuppliers handles GET /api/suppliers
func (h *LookupHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.lookupService.ListSuppliers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}
