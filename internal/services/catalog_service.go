// Package services – CatalogService
//
// Read-only pass-throughs over the remote catalog: item and contact search,
// normalized single-item detail, and the sales-order list. No mutation and no
// retry logic beyond what the remote client already provides. The shortage
// helper lives here too so the UI can derive purchase plans from live stock.
package services

import (
	"context"
	"strings"

	"github.com/ordersync/go-orders-backend/internal/utils"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// orderNumberWidth is the zero-padded width of remote sales-order numbers
// (e.g. query "42" matches order "SO-00042").
const orderNumberWidth = 5

// CatalogAPI defines the read operations CatalogService needs. *zoho.Client
// satisfies it.
type CatalogAPI interface {
	SearchItems(ctx context.Context, text string, page, perPage int) ([]zoho.Item, *zoho.PageContext, error)
	GetItem(ctx context.Context, id string) (*zoho.Item, error)
	SearchContacts(ctx context.Context, text string, page, perPage int) ([]zoho.Contact, *zoho.PageContext, error)
	GetContact(ctx context.Context, id string) (*zoho.Contact, error)
	ListSalesOrders(ctx context.Context, opts zoho.ListOrdersOptions) ([]zoho.SalesOrder, *zoho.PageContext, error)
	GetSalesOrder(ctx context.Context, id string) (*zoho.SalesOrder, error)
	CurrentOrganization(ctx context.Context) (*zoho.Organization, error)
}

// CatalogService is the read-only facade over the remote catalog.
type CatalogService struct {
	API CatalogAPI
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(api CatalogAPI) *CatalogService {
	return &CatalogService{API: api}
}

// ItemDetail is the normalized single-item shape returned to the UI. Stock
// fields stay null for items the remote does not track inventory on, rather
// than pretending a zero quantity.
type ItemDetail struct {
	ItemID            string   `json:"item_id"`
	Name              string   `json:"name"`
	SKU               string   `json:"sku,omitempty"`
	Status            string   `json:"status,omitempty"`
	Rate              float64  `json:"rate"`
	PurchaseRate      *float64 `json:"purchase_rate"`
	TrackInventory    bool     `json:"track_inventory"`
	AvailableStock    *float64 `json:"available_stock"`
	PreferredVendorID string   `json:"preferred_vendor_id,omitempty"`
}

// SearchItems searches items by free text.
func (s *CatalogService) SearchItems(ctx context.Context, query string, page, perPage int) ([]zoho.Item, *zoho.PageContext, error) {
	page, perPage = clampPage(page, perPage)
	items, pc, err := s.API.SearchItems(ctx, query, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	if items == nil {
		items = []zoho.Item{}
	}
	return items, normalizePageContext(pc, page, perPage, len(items)), nil
}

// GetItemDetail fetches one item normalized into the fixed ItemDetail shape.
func (s *CatalogService) GetItemDetail(ctx context.Context, id string) (*ItemDetail, error) {
	item, err := s.API.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &ItemDetail{
		ItemID:            item.ItemID,
		Name:              item.Name,
		SKU:               item.SKU,
		Status:            item.Status,
		Rate:              item.Rate,
		PurchaseRate:      item.PurchaseRate,
		TrackInventory:    item.TrackInventory,
		PreferredVendorID: item.PreferredVendorID,
	}
	if item.TrackInventory {
		d.AvailableStock = item.AvailableStock
	}
	return d, nil
}

// SearchContacts searches contacts by free text. The result always carries a
// non-nil list and page context even when the remote omits them.
func (s *CatalogService) SearchContacts(ctx context.Context, query string, page, perPage int) ([]zoho.Contact, *zoho.PageContext, error) {
	page, perPage = clampPage(page, perPage)
	contacts, pc, err := s.API.SearchContacts(ctx, query, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	if contacts == nil {
		contacts = []zoho.Contact{}
	}
	return contacts, normalizePageContext(pc, page, perPage, len(contacts)), nil
}

// GetContact fetches one contact.
func (s *CatalogService) GetContact(ctx context.Context, id string) (*zoho.Contact, error) {
	return s.API.GetContact(ctx, id)
}

// OrderListQuery narrows and pages the order list.
type OrderListQuery struct {
	Page       int
	PerPage    int
	Query      string
	SortColumn string
	SortOrder  string // "asc" or "desc"
}

// ListOrders lists sales orders. A purely numeric query additionally filters
// by the exact zero-padded order number, so typing "42" finds "SO-00042"
// without relying on the fuzzy text search ranking it first.
func (s *CatalogService) ListOrders(ctx context.Context, q OrderListQuery) ([]zoho.SalesOrder, *zoho.PageContext, error) {
	page, perPage := clampPage(q.Page, q.PerPage)
	opts := zoho.ListOrdersOptions{
		Page:       page,
		PerPage:    perPage,
		Search:     strings.TrimSpace(q.Query),
		SortColumn: q.SortColumn,
		SortOrder:  normalizeSortOrder(q.SortOrder),
	}
	if opts.Search != "" && utils.IsDigits(opts.Search) {
		opts.SalesOrderNumber = "SO-" + utils.ZeroPad(opts.Search, orderNumberWidth)
	}
	orders, pc, err := s.API.ListSalesOrders(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if orders == nil {
		orders = []zoho.SalesOrder{}
	}
	return orders, normalizePageContext(pc, page, perPage, len(orders)), nil
}

// GetOrder fetches one sales order.
func (s *CatalogService) GetOrder(ctx context.Context, id string) (*zoho.SalesOrder, error) {
	return s.API.GetSalesOrder(ctx, id)
}

// Organization resolves the remote tenant identity, used by the health probe.
func (s *CatalogService) Organization(ctx context.Context) (*zoho.Organization, error) {
	return s.API.CurrentOrganization(ctx)
}

// Shortfall computes how many units of an item an order line is short:
// max(0, qty - available) for inventory-tracked items, zero for untracked
// items or when the remote reports no stock figure.
func Shortfall(qty float64, item *zoho.Item) float64 {
	if item == nil || !item.TrackInventory || item.AvailableStock == nil {
		return 0
	}
	if short := qty - *item.AvailableStock; short > 0 {
		return short
	}
	return 0
}

// clampPage bounds page/perPage to sane defaults and limits.
func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 25
	}
	if perPage > 200 {
		perPage = 200
	}
	return page, perPage
}

// normalizePageContext guarantees callers a page context: the remote's when
// present, otherwise one synthesized from the request parameters.
func normalizePageContext(pc *zoho.PageContext, page, perPage, got int) *zoho.PageContext {
	if pc != nil {
		return pc
	}
	return &zoho.PageContext{Page: page, PerPage: perPage, HasMorePage: got == perPage && got > 0}
}

// normalizeSortOrder maps friendly sort directions onto the remote's "A"/"D".
func normalizeSortOrder(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "d", "descending":
		return "D"
	case "asc", "a", "ascending":
		return "A"
	default:
		return ""
	}
}
