// Sales-order endpoints.
//
//   - GET  /salesorders        (paginated list, free-text + exact-number filter)
//   - GET  /salesorders/{id}   (single order)
//   - POST /salesorders        (create order, optionally fan out purchase orders)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/services"
	"github.com/ordersync/go-orders-backend/internal/utils"
)

// CreateOrderRequest is the JSON payload for creating a sales order. Line
// numerics are accepted loosely (numbers or numeric strings) and normalized
// at this boundary.
type CreateOrderRequest struct {
	Customer             domain.Customer    `json:"customer"`
	Items                []domain.LineInput `json:"items"`
	CreatePurchaseOrders bool               `json:"createPurchaseOrders"`
	PurchasePlan         []domain.PlanInput `json:"purchasePlan"`
}

// ListOrders handles GET /salesorders.
func (h *Handlers) ListOrders(c *gin.Context) {
	q := services.OrderListQuery{
		Page:       utils.AtoiDefault(c.Query("page"), 1),
		PerPage:    utils.AtoiDefault(c.Query("per_page"), 25),
		Query:      strings.TrimSpace(c.Query("q")),
		SortColumn: strings.TrimSpace(c.Query("sort_column")),
		SortOrder:  strings.TrimSpace(c.Query("sort_order")),
	}

	orders, pc, err := h.catalog.ListOrders(c.Request.Context(), q)
	if err != nil {
		failQuery(c, err)
		return
	}
	okPage(c, orders, pc)
}

// GetOrder handles GET /salesorders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, http.StatusBadRequest, "order id is required")
		return
	}

	order, err := h.catalog.GetOrder(c.Request.Context(), id)
	if err != nil {
		failQuery(c, err)
		return
	}
	ok(c, http.StatusOK, order)
}

// CreateOrder handles POST /salesorders. Returns 201 with the unified order
// result on success, 400 on validation failure, and 422 when contact
// resolution or the remote submission fails.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	lines, err := domain.NormalizeLines(req.Items)
	if err != nil {
		failCreate(c, err)
		return
	}
	plan, err := domain.NormalizePlan(req.PurchasePlan)
	if err != nil {
		failCreate(c, err)
		return
	}

	draft := domain.OrderDraft{
		Customer:             req.Customer,
		Lines:                lines,
		CreatePurchaseOrders: req.CreatePurchaseOrders,
		PurchasePlan:         plan,
	}

	result, err := h.orders.Create(c.Request.Context(), draft)
	if err != nil {
		failCreate(c, err)
		return
	}
	ok(c, http.StatusCreated, result)
}
