// Contact endpoints.
//
//   - GET /contacts?q=&page=&per_page=   (paginated text search)
//   - GET /contacts/{id}                 (single contact)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ordersync/go-orders-backend/internal/utils"
)

// SearchContacts handles GET /contacts.
func (h *Handlers) SearchContacts(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	perPage := utils.AtoiDefault(c.Query("per_page"), 25)

	contacts, pc, err := h.catalog.SearchContacts(c.Request.Context(), strings.TrimSpace(c.Query("q")), page, perPage)
	if err != nil {
		failQuery(c, err)
		return
	}
	okPage(c, contacts, pc)
}

// GetContact handles GET /contacts/:id.
func (h *Handlers) GetContact(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, "contact id is required")
		return
	}

	contact, err := h.catalog.GetContact(c.Request.Context(), id)
	if err != nil {
		failQuery(c, err)
		return
	}
	ok(c, http.StatusOK, contact)
}
