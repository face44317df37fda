// Package services – PurchaseService
//
// This file implements the purchase-plan fan-out: each plan row is bound to
// its item's preferred vendor, rows sharing a vendor are aggregated into one
// bucket, and one purchase order is submitted per bucket. Failures are
// isolated per vendor — a rejected purchase order skips its own rows and
// leaves the remaining buckets (and the parent sales order) untouched.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// ItemsAPI defines the item lookup PurchaseService needs. *zoho.Client
// satisfies it.
type ItemsAPI interface {
	GetItem(ctx context.Context, id string) (*zoho.Item, error)
}

// PurchasesAPI defines the purchase-order creation PurchaseService needs.
// *zoho.Client satisfies it.
type PurchasesAPI interface {
	CreatePurchaseOrder(ctx context.Context, p zoho.PurchaseOrderPayload) (*zoho.PurchaseOrder, error)
}

// FanoutOptions links created purchase orders back to their originating
// sales order. Reference and notes are only attached when an order is given.
type FanoutOptions struct {
	SalesOrderID     string
	SalesOrderNumber string
}

// PurchaseService fans a purchase plan out into per-vendor purchase orders.
type PurchaseService struct {
	Items ItemsAPI
	API   PurchasesAPI
}

// NewPurchaseService constructs a PurchaseService.
func NewPurchaseService(items ItemsAPI, api PurchasesAPI) *PurchaseService {
	return &PurchaseService{Items: items, API: api}
}

// vendorBucket aggregates plan rows bound to one vendor for the duration of
// a single fan-out invocation.
type vendorBucket struct {
	vendorID string
	lines    []zoho.PurchaseOrderLine
	lineIdx  map[string]int   // item id -> index into lines
	rows     []domain.PlanRow // original rows, for skip reporting
}

// itemLookup caches one item fetch, hit or miss, for the invocation.
type itemLookup struct {
	item *zoho.Item
	err  error
}

// CreateFromPlan executes the fan-out. Every input row ends up either inside
// a created purchase order or in the skipped list with a reason; the method
// itself never fails. An empty or fully-skipped plan returns with no
// purchase orders created.
func (s *PurchaseService) CreateFromPlan(ctx context.Context, plan []domain.PlanRow, opts FanoutOptions) domain.FanoutReport {
	report := domain.FanoutReport{
		Created: []domain.CreatedPurchaseOrder{},
		Skipped: []domain.SkippedPlanRow{},
	}

	// Item lookups are cached per invocation so a plan repeating an item id
	// costs one remote call, not one per row.
	cache := map[string]itemLookup{}
	buckets := map[string]*vendorBucket{}
	var vendorOrder []string

	for _, row := range plan {
		if row.ItemID == "" || row.Quantity <= 0 {
			report.Skipped = append(report.Skipped, domain.SkippedPlanRow{
				ItemID: row.ItemID, Quantity: row.Quantity,
				Reason: domain.SkipBadRow,
			})
			continue
		}

		lu, ok := cache[row.ItemID]
		if !ok {
			lu.item, lu.err = s.Items.GetItem(ctx, row.ItemID)
			cache[row.ItemID] = lu
		}
		if lu.err != nil {
			report.Skipped = append(report.Skipped, domain.SkippedPlanRow{
				ItemID: row.ItemID, Quantity: row.Quantity,
				Reason: domain.SkipGetItemFailed,
				Detail: displayMessage(lu.err),
			})
			continue
		}

		vendorID := lu.item.PreferredVendorID
		if vendorID == "" {
			vendorID = lu.item.VendorID
		}
		if vendorID == "" {
			report.Skipped = append(report.Skipped, domain.SkippedPlanRow{
				ItemID: row.ItemID, Quantity: row.Quantity,
				Reason: domain.SkipNoPreferredVendor,
			})
			continue
		}

		b := buckets[vendorID]
		if b == nil {
			b = &vendorBucket{vendorID: vendorID, lineIdx: map[string]int{}}
			buckets[vendorID] = b
			vendorOrder = append(vendorOrder, vendorID)
		}
		b.rows = append(b.rows, row)
		if i, dup := b.lineIdx[row.ItemID]; dup {
			// Duplicate item within a vendor: sum quantities, keep the rate
			// already recorded.
			b.lines[i].Quantity += row.Quantity
			continue
		}
		b.lineIdx[row.ItemID] = len(b.lines)
		b.lines = append(b.lines, zoho.PurchaseOrderLine{
			ItemID:   row.ItemID,
			Quantity: row.Quantity,
			Rate:     lu.item.PurchaseRate,
		})
	}

	if len(vendorOrder) == 0 {
		return report
	}

	for _, vendorID := range vendorOrder {
		b := buckets[vendorID]
		payload := zoho.PurchaseOrderPayload{
			VendorID:  vendorID,
			LineItems: b.lines,
		}
		if opts.SalesOrderID != "" {
			ref := opts.SalesOrderNumber
			if ref == "" {
				ref = opts.SalesOrderID
			}
			payload.ReferenceNumber = ref
			payload.Notes = "Auto-created to cover sales order " + ref
		}

		po, err := s.API.CreatePurchaseOrder(ctx, payload)
		if err != nil {
			log.Warn().Err(err).Str("vendor_id", vendorID).
				Msg("purchase order creation failed, continuing with remaining vendors")
			for _, row := range b.rows {
				report.Skipped = append(report.Skipped, domain.SkippedPlanRow{
					ItemID: row.ItemID, Quantity: row.Quantity,
					Reason: domain.SkipPOCreateFailed,
					Detail: displayMessage(err),
				})
			}
			continue
		}

		itemIDs := make([]string, 0, len(b.lines))
		for _, l := range b.lines {
			itemIDs = append(itemIDs, l.ItemID)
		}
		report.Created = append(report.Created, domain.CreatedPurchaseOrder{
			PurchaseOrderID:     po.PurchaseOrderID,
			PurchaseOrderNumber: po.PurchaseOrderNumber,
			VendorID:            po.VendorID,
			ItemIDs:             itemIDs,
		})
	}

	return report
}

// displayMessage extracts a user-presentable message from a remote error.
func displayMessage(err error) string {
	var ae *zoho.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "remote request failed"
}
