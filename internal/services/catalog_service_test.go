package services

import (
	"context"
	"testing"

	"github.com/ordersync/go-orders-backend/internal/zoho"
)

type fakeCatalogAPI struct {
	items    []zoho.Item
	item     *zoho.Item
	contacts []zoho.Contact
	contact  *zoho.Contact
	orders   []zoho.SalesOrder
	order    *zoho.SalesOrder
	org      *zoho.Organization
	pc       *zoho.PageContext
	err      error

	listOpts []zoho.ListOrdersOptions
}

func (f *fakeCatalogAPI) SearchItems(context.Context, string, int, int) ([]zoho.Item, *zoho.PageContext, error) {
	return f.items, f.pc, f.err
}
func (f *fakeCatalogAPI) GetItem(context.Context, string) (*zoho.Item, error) { return f.item, f.err }
func (f *fakeCatalogAPI) SearchContacts(context.Context, string, int, int) ([]zoho.Contact, *zoho.PageContext, error) {
	return f.contacts, f.pc, f.err
}
func (f *fakeCatalogAPI) GetContact(context.Context, string) (*zoho.Contact, error) {
	return f.contact, f.err
}
func (f *fakeCatalogAPI) ListSalesOrders(_ context.Context, opts zoho.ListOrdersOptions) ([]zoho.SalesOrder, *zoho.PageContext, error) {
	f.listOpts = append(f.listOpts, opts)
	return f.orders, f.pc, f.err
}
func (f *fakeCatalogAPI) GetSalesOrder(context.Context, string) (*zoho.SalesOrder, error) {
	return f.order, f.err
}
func (f *fakeCatalogAPI) CurrentOrganization(context.Context) (*zoho.Organization, error) {
	return f.org, f.err
}

func TestSearchItems_NormalizesEmptyResult(t *testing.T) {
	s := NewCatalogService(&fakeCatalogAPI{})
	items, pc, err := s.SearchItems(context.Background(), "widget", 0, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if items == nil {
		t.Fatal("result list must be non-nil")
	}
	if pc == nil || pc.Page != 1 || pc.PerPage != 25 || pc.HasMorePage {
		t.Fatalf("synthesized page context wrong: %+v", pc)
	}
}

func TestSearchItems_SynthesizedHasMore(t *testing.T) {
	api := &fakeCatalogAPI{items: []zoho.Item{{ItemID: "a"}, {ItemID: "b"}}}
	s := NewCatalogService(api)
	_, pc, err := s.SearchItems(context.Background(), "x", 1, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !pc.HasMorePage {
		t.Fatal("a full page should report has_more_page")
	}
}

func TestGetItemDetail_StockOnlyWhenTracked(t *testing.T) {
	stock := 5.0
	rate := 3.0
	api := &fakeCatalogAPI{item: &zoho.Item{
		ItemID: "i1", Name: "Widget", TrackInventory: true,
		AvailableStock: &stock, PurchaseRate: &rate,
	}}
	s := NewCatalogService(api)

	d, err := s.GetItemDetail(context.Background(), "i1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.AvailableStock == nil || *d.AvailableStock != 5 {
		t.Fatalf("tracked item must expose stock: %+v", d)
	}

	api.item = &zoho.Item{ItemID: "i2", Name: "Service", AvailableStock: &stock}
	d, err = s.GetItemDetail(context.Background(), "i2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.AvailableStock != nil {
		t.Fatal("untracked item must not pretend to have stock")
	}
}

func TestListOrders_NumericQueryFiltersByOrderNumber(t *testing.T) {
	api := &fakeCatalogAPI{}
	s := NewCatalogService(api)

	if _, _, err := s.ListOrders(context.Background(), OrderListQuery{Query: "42"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	opts := api.listOpts[0]
	if opts.SalesOrderNumber != "SO-00042" {
		t.Fatalf("numeric query must map to the padded order number, got %q", opts.SalesOrderNumber)
	}
	if opts.Search != "42" {
		t.Fatalf("text search must still be sent, got %q", opts.Search)
	}
}

func TestListOrders_TextQueryLeavesNumberEmpty(t *testing.T) {
	api := &fakeCatalogAPI{}
	s := NewCatalogService(api)

	if _, _, err := s.ListOrders(context.Background(), OrderListQuery{Query: "acme"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if api.listOpts[0].SalesOrderNumber != "" {
		t.Fatalf("text query must not fabricate an order number: %q", api.listOpts[0].SalesOrderNumber)
	}
}

func TestListOrders_SortOrderMapping(t *testing.T) {
	api := &fakeCatalogAPI{}
	s := NewCatalogService(api)

	cases := map[string]string{"asc": "A", "DESC": "D", "descending": "D", "": "", "sideways": ""}
	for in, want := range cases {
		api.listOpts = nil
		if _, _, err := s.ListOrders(context.Background(), OrderListQuery{SortOrder: in}); err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := api.listOpts[0].SortOrder; got != want {
			t.Fatalf("sort %q mapped to %q, want %q", in, got, want)
		}
	}
}

func TestListOrders_ClampsPaging(t *testing.T) {
	api := &fakeCatalogAPI{}
	s := NewCatalogService(api)

	if _, _, err := s.ListOrders(context.Background(), OrderListQuery{Page: -3, PerPage: 9000}); err != nil {
		t.Fatalf("list: %v", err)
	}
	opts := api.listOpts[0]
	if opts.Page != 1 || opts.PerPage != 200 {
		t.Fatalf("paging not clamped: %+v", opts)
	}
}

func TestShortfall(t *testing.T) {
	five := 5.0
	tracked := &zoho.Item{TrackInventory: true, AvailableStock: &five}
	cases := []struct {
		name string
		qty  float64
		item *zoho.Item
		want float64
	}{
		{"short by three", 8, tracked, 3},
		{"covered", 4, tracked, 0},
		{"exactly covered", 5, tracked, 0},
		{"untracked", 8, &zoho.Item{AvailableStock: &five}, 0},
		{"no stock figure", 8, &zoho.Item{TrackInventory: true}, 0},
		{"nil item", 8, nil, 0},
	}
	for _, tc := range cases {
		if got := Shortfall(tc.qty, tc.item); got != tc.want {
			t.Fatalf("%s: Shortfall = %v, want %v", tc.name, got, tc.want)
		}
	}
}
