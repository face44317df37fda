// Package services – OrderService
//
// This file implements the order-creation orchestration: validate the draft,
// resolve its customer, submit the order exactly once despite ambiguous
// success signals from the remote, verify the customer binding, and
// optionally fan out purchase orders. Resolution and submission failures
// abort the whole call; fan-out failures are reported but never undo the
// already-committed order.
package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// OrdersAPI defines the remote order operations OrderService needs.
// *zoho.Client satisfies it.
type OrdersAPI interface {
	CreateSalesOrder(ctx context.Context, p zoho.SalesOrderPayload) (*zoho.SalesOrder, error)
	FindSalesOrderByReference(ctx context.Context, ref string) (*zoho.SalesOrder, error)
}

// ContactResolver resolves a customer to a remote contact id.
type ContactResolver interface {
	Ensure(ctx context.Context, cust domain.Customer) (string, error)
}

// PlanFanout turns a purchase plan into vendor purchase orders. It reports
// per-row outcomes instead of failing, so it has no error return.
type PlanFanout interface {
	CreateFromPlan(ctx context.Context, plan []domain.PlanRow, opts FanoutOptions) domain.FanoutReport
}

// OrderService orchestrates sales-order creation.
type OrderService struct {
	Contacts ContactResolver
	API      OrdersAPI
	Fanout   PlanFanout

	now func() time.Time // test seam
}

// NewOrderService constructs an OrderService. fanout may be nil when
// purchase-order creation is disabled for the deployment.
func NewOrderService(contacts ContactResolver, api OrdersAPI, fanout PlanFanout) *OrderService {
	return &OrderService{Contacts: contacts, API: api, Fanout: fanout, now: time.Now}
}

// Create validates the draft and creates the sales order remotely.
//
// A fresh reference number is generated per call and acts as the idempotency
// token: two calls with identical content intentionally create two orders,
// while a single call whose submission ends ambiguously re-queries by the
// token to find out whether the order exists.
//
// The purchase plan, when supplied, is trusted after structural validation.
// Shortage math is not recomputed server-side; a client sending a plan that
// disagrees with live stock levels gets exactly that plan executed. Known
// integrity gap, kept to match observed behavior.
func (s *OrderService) Create(ctx context.Context, draft domain.OrderDraft) (*domain.OrderResult, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	contactID, err := s.Contacts.Ensure(ctx, draft.Customer)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ref := domain.NewOrderReference(now)
	payload := zoho.SalesOrderPayload{
		CustomerID:      contactID,
		ReferenceNumber: ref,
		Date:            now.UTC().Format("2006-01-02"),
		LineItems:       make([]zoho.SalesOrderLinePayload, 0, len(draft.Lines)),
		Notes:           "Created from web order draft",
	}
	for _, l := range draft.Lines {
		payload.LineItems = append(payload.LineItems, zoho.SalesOrderLinePayload{
			ItemID:        l.ItemID,
			Name:          l.Name,
			Quantity:      l.Qty,
			Rate:          l.Rate,
			TaxPercentage: l.Tax,
		})
	}

	order, err := s.API.CreateSalesOrder(ctx, payload)
	if err != nil {
		if !zoho.CreatedDespiteError(err) {
			return nil, fmt.Errorf("create sales order: %w", err)
		}
		// The remote claims the write failed while its message says it
		// committed. The reference number is the only reliable handle now.
		log.Warn().Err(err).Str("reference", ref).
			Msg("order creation returned an error for a committed write, re-querying by reference")
		found, ferr := s.API.FindSalesOrderByReference(ctx, ref)
		if ferr != nil || found == nil {
			return nil, &AmbiguousOrderError{ReferenceNumber: ref}
		}
		order = found
	}

	if order.CustomerID != contactID {
		return nil, &BindingMismatchError{
			OrderID:           order.SalesOrderID,
			ExpectedContactID: contactID,
			ActualContactID:   order.CustomerID,
		}
	}

	result := &domain.OrderResult{
		OrderID:         order.SalesOrderID,
		OrderNumber:     order.SalesOrderNumber,
		CustomerID:      order.CustomerID,
		ReferenceNumber: ref,
		Message:         fmt.Sprintf("Sales order %s created", order.SalesOrderNumber),
	}

	if draft.CreatePurchaseOrders && len(draft.PurchasePlan) > 0 && s.Fanout != nil {
		report := s.Fanout.CreateFromPlan(ctx, draft.PurchasePlan, FanoutOptions{
			SalesOrderID:     order.SalesOrderID,
			SalesOrderNumber: order.SalesOrderNumber,
		})
		result.PurchaseOrders = &report
	}

	return result, nil
}

// validateDraft enforces the submission preconditions without touching the
// remote: customer name plus a parseable email, at least one line, and sane
// numeric values with a remote item id on every line.
func validateDraft(draft domain.OrderDraft) error {
	if strings.TrimSpace(draft.Customer.Name) == "" {
		return &domain.ValidationError{Field: "customer.name", Reason: "customer name is required"}
	}
	email := strings.TrimSpace(draft.Customer.Email)
	if email == "" {
		return &domain.ValidationError{Field: "customer.email", Reason: "customer email is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &domain.ValidationError{Field: "customer.email", Reason: "customer email is not a valid address"}
	}
	if len(draft.Lines) == 0 {
		return &domain.ValidationError{Field: "items", Reason: "order must contain at least one line"}
	}
	for i, l := range draft.Lines {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(l.ItemID) == "" {
			return &domain.ValidationError{Field: field + ".item_id", Reason: "line is missing its item id"}
		}
		if l.Qty <= 0 {
			return &domain.ValidationError{Field: field + ".qty", Reason: "quantity must be greater than zero"}
		}
		if l.Rate < 0 || l.Tax < 0 {
			return &domain.ValidationError{Field: field, Reason: "rate and tax must not be negative"}
		}
	}
	return nil
}
