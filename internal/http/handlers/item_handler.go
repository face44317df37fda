// Item endpoints.
//
//   - GET /items?q=&page=&per_page=   (paginated text search)
//   - GET /items/{id}                 (normalized single item)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ordersync/go-orders-backend/internal/utils"
)

// SearchItems handles GET /items.
func (h *Handlers) SearchItems(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	perPage := utils.AtoiDefault(c.Query("per_page"), 25)

	items, pc, err := h.catalog.SearchItems(c.Request.Context(), strings.TrimSpace(c.Query("q")), page, perPage)
	if err != nil {
		failQuery(c, err)
		return
	}
	okPage(c, items, pc)
}

// GetItem handles GET /items/:id.
func (h *Handlers) GetItem(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, "item id is required")
		return
	}

	item, err := h.catalog.GetItemDetail(c.Request.Context(), id)
	if err != nil {
		failQuery(c, err)
		return
	}
	ok(c, http.StatusOK, item)
}
