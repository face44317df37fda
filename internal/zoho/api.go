package zoho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Typed wrappers over Client.Do for the resources this service touches.
// Each wrapper owns its endpoint path and envelope shape; callers get plain
// structs and never see raw JSON.

// SearchContactsByEmail looks up contacts with an exact email match. The
// remote treats the email parameter as an exact filter, so the first page
// with a small limit is enough.
func (c *Client) SearchContactsByEmail(ctx context.Context, email string) ([]Contact, error) {
	q := url.Values{
		"email":    {email},
		"page":     {"1"},
		"per_page": {"10"},
	}
	var env struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := c.Do(ctx, http.MethodGet, "/contacts", q, nil, &env); err != nil {
		return nil, err
	}
	return env.Contacts, nil
}

// SearchContacts runs the remote free-text contact search. The remote search
// is fuzzy; callers needing exactness must filter the result themselves.
func (c *Client) SearchContacts(ctx context.Context, text string, page, perPage int) ([]Contact, *PageContext, error) {
	q := url.Values{
		"search_text": {text},
		"page":        {strconv.Itoa(page)},
		"per_page":    {strconv.Itoa(perPage)},
	}
	var env struct {
		Contacts    []Contact    `json:"contacts"`
		PageContext *PageContext `json:"page_context"`
	}
	if err := c.Do(ctx, http.MethodGet, "/contacts", q, nil, &env); err != nil {
		return nil, nil, err
	}
	return env.Contacts, env.PageContext, nil
}

// GetContact fetches one contact by id.
func (c *Client) GetContact(ctx context.Context, id string) (*Contact, error) {
	var env struct {
		Contact *Contact `json:"contact"`
	}
	if err := c.Do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Contact == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "contact not found"}
	}
	return env.Contact, nil
}

// CreateContact creates a contact and returns the stored record.
func (c *Client) CreateContact(ctx context.Context, nc NewContact) (*Contact, error) {
	var env struct {
		Contact *Contact `json:"contact"`
	}
	if err := c.Do(ctx, http.MethodPost, "/contacts", nil, nc, &env); err != nil {
		return nil, err
	}
	if env.Contact == nil {
		return nil, fmt.Errorf("contact creation returned no contact")
	}
	return env.Contact, nil
}

// UpdateContact applies a partial update to a contact.
func (c *Client) UpdateContact(ctx context.Context, id string, patch map[string]any) error {
	return c.Do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), nil, patch, nil)
}

// SearchItems runs the remote free-text item search.
func (c *Client) SearchItems(ctx context.Context, text string, page, perPage int) ([]Item, *PageContext, error) {
	q := url.Values{
		"search_text": {text},
		"page":        {strconv.Itoa(page)},
		"per_page":    {strconv.Itoa(perPage)},
	}
	var env struct {
		Items       []Item       `json:"items"`
		PageContext *PageContext `json:"page_context"`
	}
	if err := c.Do(ctx, http.MethodGet, "/items", q, nil, &env); err != nil {
		return nil, nil, err
	}
	return env.Items, env.PageContext, nil
}

// GetItem fetches one item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*Item, error) {
	var env struct {
		Item *Item `json:"item"`
	}
	if err := c.Do(ctx, http.MethodGet, "/items/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Item == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "item not found"}
	}
	return env.Item, nil
}

// ListOrdersOptions narrows and pages the sales-order list.
type ListOrdersOptions struct {
	Page             int
	PerPage          int
	Search           string // free-text search
	SalesOrderNumber string // exact order-number filter
	SortColumn       string
	SortOrder        string // "A" or "D"
}

// ListSalesOrders lists sales orders with the given options.
func (c *Client) ListSalesOrders(ctx context.Context, opts ListOrdersOptions) ([]SalesOrder, *PageContext, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Search != "" {
		q.Set("search_text", opts.Search)
	}
	if opts.SalesOrderNumber != "" {
		q.Set("salesorder_number", opts.SalesOrderNumber)
	}
	if opts.SortColumn != "" {
		q.Set("sort_column", opts.SortColumn)
	}
	if opts.SortOrder != "" {
		q.Set("sort_order", opts.SortOrder)
	}
	var env struct {
		SalesOrders []SalesOrder `json:"salesorders"`
		PageContext *PageContext `json:"page_context"`
	}
	if err := c.Do(ctx, http.MethodGet, "/salesorders", q, nil, &env); err != nil {
		return nil, nil, err
	}
	return env.SalesOrders, env.PageContext, nil
}

// GetSalesOrder fetches one sales order by id.
func (c *Client) GetSalesOrder(ctx context.Context, id string) (*SalesOrder, error) {
	var env struct {
		SalesOrder *SalesOrder `json:"salesorder"`
	}
	if err := c.Do(ctx, http.MethodGet, "/salesorders/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, err
	}
	if env.SalesOrder == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "sales order not found"}
	}
	return env.SalesOrder, nil
}

// FindSalesOrderByReference locates a sales order by its reference number.
// Returns (nil, nil) when no order carries the reference.
func (c *Client) FindSalesOrderByReference(ctx context.Context, ref string) (*SalesOrder, error) {
	q := url.Values{"reference_number": {ref}}
	var env struct {
		SalesOrders []SalesOrder `json:"salesorders"`
	}
	if err := c.Do(ctx, http.MethodGet, "/salesorders", q, nil, &env); err != nil {
		return nil, err
	}
	if len(env.SalesOrders) == 0 {
		return nil, nil
	}
	return &env.SalesOrders[0], nil
}

// CreateSalesOrder submits a sales order and returns the stored record.
func (c *Client) CreateSalesOrder(ctx context.Context, p SalesOrderPayload) (*SalesOrder, error) {
	var env struct {
		SalesOrder *SalesOrder `json:"salesorder"`
	}
	if err := c.Do(ctx, http.MethodPost, "/salesorders", nil, p, &env); err != nil {
		return nil, err
	}
	if env.SalesOrder == nil {
		return nil, fmt.Errorf("sales order creation returned no order")
	}
	return env.SalesOrder, nil
}

// CreatePurchaseOrder submits a purchase order and returns the stored record.
func (c *Client) CreatePurchaseOrder(ctx context.Context, p PurchaseOrderPayload) (*PurchaseOrder, error) {
	var env struct {
		PurchaseOrder *PurchaseOrder `json:"purchaseorder"`
	}
	if err := c.Do(ctx, http.MethodPost, "/purchaseorders", nil, p, &env); err != nil {
		return nil, err
	}
	if env.PurchaseOrder == nil {
		return nil, fmt.Errorf("purchase order creation returned no order")
	}
	return env.PurchaseOrder, nil
}

// CurrentOrganization resolves the organization record matching the client's
// configured tenant scope, falling back to the first organization the
// credentials can see.
func (c *Client) CurrentOrganization(ctx context.Context) (*Organization, error) {
	var env struct {
		Organizations []Organization `json:"organizations"`
	}
	if err := c.Do(ctx, http.MethodGet, "/organizations", nil, nil, &env); err != nil {
		return nil, err
	}
	for i := range env.Organizations {
		if env.Organizations[i].OrganizationID == c.cfg.OrganizationID {
			return &env.Organizations[i], nil
		}
	}
	if len(env.Organizations) > 0 {
		return &env.Organizations[0], nil
	}
	return nil, &APIError{StatusCode: http.StatusNotFound, Message: "no organizations visible to these credentials"}
}
