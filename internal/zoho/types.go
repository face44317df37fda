package zoho

// Wire types for the remote resources this service reads and writes. Field
// names mirror the remote JSON exactly; optional numeric fields that the
// remote omits for untracked items are pointers so absence survives decoding.

// PageContext is the remote pagination envelope, passed through to clients
// of the list endpoints.
type PageContext struct {
	Page        int  `json:"page"`
	PerPage     int  `json:"per_page"`
	HasMorePage bool `json:"has_more_page"`
}

// ContactPerson is a person attached to a contact. The primary person is
// where the remote UI surfaces the contact's email.
type ContactPerson struct {
	Email            string `json:"email,omitempty"`
	IsPrimaryContact bool   `json:"is_primary_contact"`
}

// Contact is a customer or vendor identity owned by the remote system.
type Contact struct {
	ContactID      string          `json:"contact_id"`
	ContactName    string          `json:"contact_name"`
	ContactType    string          `json:"contact_type,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	ContactPersons []ContactPerson `json:"contact_persons,omitempty"`
}

// NewContact is the creation payload for a contact.
type NewContact struct {
	ContactName    string          `json:"contact_name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	ContactPersons []ContactPerson `json:"contact_persons,omitempty"`
}

// Item is a sellable/purchasable product record. AvailableStock is nil for
// items the remote does not track inventory for.
type Item struct {
	ItemID            string   `json:"item_id"`
	Name              string   `json:"name"`
	SKU               string   `json:"sku,omitempty"`
	Status            string   `json:"status,omitempty"`
	Rate              float64  `json:"rate"`
	PurchaseRate      *float64 `json:"purchase_rate,omitempty"`
	TrackInventory    bool     `json:"track_inventory"`
	AvailableStock    *float64 `json:"available_stock,omitempty"`
	PreferredVendorID string   `json:"preferred_vendor_id,omitempty"`
	VendorID          string   `json:"vendor_id,omitempty"`
}

// SalesOrderLine is one line of a remote sales order.
type SalesOrderLine struct {
	LineItemID string  `json:"line_item_id,omitempty"`
	ItemID     string  `json:"item_id"`
	Name       string  `json:"name,omitempty"`
	Quantity   float64 `json:"quantity"`
	Rate       float64 `json:"rate"`
}

// SalesOrder is a remote sales order. ReferenceNumber carries the
// client-generated idempotency token.
type SalesOrder struct {
	SalesOrderID     string           `json:"salesorder_id"`
	SalesOrderNumber string           `json:"salesorder_number"`
	CustomerID       string           `json:"customer_id"`
	CustomerName     string           `json:"customer_name,omitempty"`
	ReferenceNumber  string           `json:"reference_number,omitempty"`
	Date             string           `json:"date,omitempty"`
	Status           string           `json:"status,omitempty"`
	Total            float64          `json:"total"`
	LineItems        []SalesOrderLine `json:"line_items,omitempty"`
}

// SalesOrderLinePayload is one line of a sales-order creation payload.
type SalesOrderLinePayload struct {
	ItemID        string  `json:"item_id"`
	Name          string  `json:"name,omitempty"`
	Quantity      float64 `json:"quantity"`
	Rate          float64 `json:"rate"`
	TaxPercentage float64 `json:"tax_percentage,omitempty"`
}

// SalesOrderPayload is the creation payload for a sales order.
type SalesOrderPayload struct {
	CustomerID      string                  `json:"customer_id"`
	ReferenceNumber string                  `json:"reference_number"`
	Date            string                  `json:"date"`
	LineItems       []SalesOrderLinePayload `json:"line_items"`
	Notes           string                  `json:"notes,omitempty"`
}

// PurchaseOrderLine is one line of a remote purchase order (and of its
// creation payload). Rate is a pointer so an unknown purchase rate is
// omitted rather than sent as zero.
type PurchaseOrderLine struct {
	ItemID   string   `json:"item_id"`
	Quantity float64  `json:"quantity"`
	Rate     *float64 `json:"rate,omitempty"`
}

// PurchaseOrder is a remote purchase order.
type PurchaseOrder struct {
	PurchaseOrderID     string              `json:"purchaseorder_id"`
	PurchaseOrderNumber string              `json:"purchaseorder_number"`
	VendorID            string              `json:"vendor_id"`
	LineItems           []PurchaseOrderLine `json:"line_items,omitempty"`
}

// PurchaseOrderPayload is the creation payload for a purchase order.
// ReferenceNumber and Notes link the PO back to its originating sales order
// and are only set when that order is known.
type PurchaseOrderPayload struct {
	VendorID        string              `json:"vendor_id"`
	LineItems       []PurchaseOrderLine `json:"line_items"`
	ReferenceNumber string              `json:"reference_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// Organization identifies the remote tenant the credentials are scoped to.
type Organization struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name,omitempty"`
}
