package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/nantech/inventory/internal/application/catalog"
	"github.com/nantech/inventory/internal/interfaces/http/dto"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	BaseHandler
	itemService *appcatalog.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *appcatalog.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// ItemMutationData confirms an item mutation. ID is set on create only.
type ItemMutationData struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// List returns items ordered by name, optionally filtered.
// GET /api/items?categoryId=&supplierId=
func (h *ItemHandler) List(c *gin.Context) {
	query, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	items, err := h.itemService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Search returns items whose name matches term, optionally filtered.
// GET /api/items/search?term=&categoryId=&supplierId=
func (h *ItemHandler) Search(c *gin.Context) {
	query, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	items, err := h.itemService.Search(c.Request.Context(), appcatalog.ItemSearchQuery{
		Term:          c.Query("term"),
		ItemListQuery: query,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// bindListQuery parses the optional categoryId and supplierId parameters.
// It answers 400 and returns false when either is malformed.
func (h *ItemHandler) bindListQuery(c *gin.Context) (appcatalog.ItemListQuery, bool) {
	categoryID, ok := parseOptionalIDQuery(c, "categoryId")
	if !ok {
		h.BadRequest(c, "Invalid categoryId")
		return appcatalog.ItemListQuery{}, false
	}
	supplierID, ok := parseOptionalIDQuery(c, "supplierId")
	if !ok {
		h.BadRequest(c, "Invalid supplierId")
		return appcatalog.ItemListQuery{}, false
	}
	return appcatalog.ItemListQuery{CategoryID: categoryID, SupplierID: supplierID}, true
}

// Get returns one item.
// GET /api/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.itemService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Create stores a new item.
// POST /api/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req appcatalog.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	created, err := h.itemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ItemMutationData{ID: created.ID, Message: "Item created successfully"})
}

// Update replaces an item.
// PUT /api/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req appcatalog.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.itemService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.MessageData{Message: "Item updated successfully"})
}

// Delete removes an item that nothing references.
// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.MessageData{Message: "Item deleted successfully"})
}
