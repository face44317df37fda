// Package domain defines the core types exchanged between the HTTP layer and
// the order services: customers, draft orders, purchase plans, and the result
// shapes returned to callers. None of these types are persisted locally — the
// remote inventory system owns every durable record, so these are request and
// response carriers, not storage models.
package domain

import "strings"

// Customer identifies the buyer of a draft order. It is a lookup/creation key
// for the remote contact directory, never stored locally.
//
// At least one of Name/Email must be non-empty before resolution is attempted.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// HasIdentity reports whether the customer carries enough information to be
// resolved against the remote contact directory.
func (c Customer) HasIdentity() bool {
	return strings.TrimSpace(c.Name) != "" || strings.TrimSpace(c.Email) != ""
}

// OrderLine is one fully-normalized line of a draft order. Loose client input
// is converted into this strict shape at the HTTP boundary (see normalize.go);
// core logic never sees untyped maps.
type OrderLine struct {
	ItemID string  `json:"item_id"`
	Name   string  `json:"name"`
	SKU    string  `json:"sku,omitempty"`
	Qty    float64 `json:"qty"`
	Rate   float64 `json:"rate"`
	Tax    float64 `json:"tax"`
}

// PlanRow is one row of a purchase plan: an item and the quantity to procure.
// The plan is derived client-side from shortage math and is validated only
// structurally here; see OrderService for the trust boundary.
type PlanRow struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// OrderDraft is a validated sales-order submission: the customer to bill,
// the lines to sell, and optionally a purchase plan to fan out.
type OrderDraft struct {
	Customer             Customer
	Lines                []OrderLine
	CreatePurchaseOrders bool
	PurchasePlan         []PlanRow
}

// OrderResult is the unified outcome of a successful order creation.
type OrderResult struct {
	OrderID         string         `json:"order_id"`
	OrderNumber     string         `json:"order_number"`
	CustomerID      string         `json:"customer_id"`
	ReferenceNumber string         `json:"reference_number"`
	Message         string         `json:"message"`
	PurchaseOrders  *FanoutReport  `json:"purchase_orders,omitempty"`
}

// CreatedPurchaseOrder records one purchase order emitted by the fan-out.
type CreatedPurchaseOrder struct {
	PurchaseOrderID     string   `json:"purchaseorder_id"`
	PurchaseOrderNumber string   `json:"purchaseorder_number"`
	VendorID            string   `json:"vendor_id"`
	ItemIDs             []string `json:"item_ids"`
}

// SkippedPlanRow records one plan row the fan-out could not turn into a
// purchase-order line, with a stable machine-readable reason.
type SkippedPlanRow struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason"`
	Detail   string  `json:"detail,omitempty"`
}

// Skip reasons reported by the purchase-plan fan-out.
const (
	SkipBadRow            = "bad_row"
	SkipGetItemFailed     = "get_item_failed"
	SkipNoPreferredVendor = "no_preferred_vendor"
	SkipPOCreateFailed    = "po_create_failed"
)

// FanoutReport summarizes a purchase-plan fan-out: one entry in Created per
// vendor whose purchase order was accepted, and every row that was dropped in
// Skipped. The two lists together account for the whole input plan.
type FanoutReport struct {
	Created []CreatedPurchaseOrder `json:"created"`
	Skipped []SkippedPlanRow       `json:"skipped"`
}
