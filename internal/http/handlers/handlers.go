// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate and normalize input, call the
// application services, and translate results into the response envelope.
// They depend on abstract service interfaces so transport concerns stay
// separate from business logic.
package handlers

import (
	"context"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/services"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// OrderCreator creates sales orders from validated drafts.
//
// Implementations must honor the provided context for cancellation and
// timeouts and be safe for concurrent use.
type OrderCreator interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderResult, error)
}

// Catalog exposes the read-only search and fetch surface.
type Catalog interface {
	SearchItems(ctx context.Context, query string, page, perPage int) ([]zoho.Item, *zoho.PageContext, error)
	GetItemDetail(ctx context.Context, id string) (*services.ItemDetail, error)
	SearchContacts(ctx context.Context, query string, page, perPage int) ([]zoho.Contact, *zoho.PageContext, error)
	GetContact(ctx context.Context, id string) (*zoho.Contact, error)
	ListOrders(ctx context.Context, q services.OrderListQuery) ([]zoho.SalesOrder, *zoho.PageContext, error)
	GetOrder(ctx context.Context, id string) (*zoho.SalesOrder, error)
	Organization(ctx context.Context) (*zoho.Organization, error)
}

// Handlers groups the HTTP endpoints for orders and the catalog facade.
type Handlers struct {
	orders  OrderCreator
	catalog Catalog
}

// New constructs a Handlers instance bound to the given services.
func New(orders OrderCreator, catalog Catalog) *Handlers {
	return &Handlers{orders: orders, catalog: catalog}
}
