// Boundary normalization of loosely-typed client payloads.
//
// The web UI sends line items with numeric fields that may arrive as JSON
// numbers, numeric strings, or be absent entirely. Everything is coerced into
// the strict OrderLine/PlanRow shapes here, at the edge, so the services
// below only ever deal with typed values. Coercion or constraint failures
// surface as *ValidationError immediately — a line with no usable item id or
// a non-positive quantity is rejected, never silently dropped.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError describes a rejected input field. The message is safe to
// show to end users verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// LineInput is the loose wire shape of one order line as submitted by the UI.
type LineInput struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	SKU    string `json:"sku"`
	Qty    any    `json:"qty"`
	Rate   any    `json:"rate"`
	Tax    any    `json:"tax"`
}

// PlanInput is the loose wire shape of one purchase-plan row.
type PlanInput struct {
	ItemID   string `json:"item_id"`
	Quantity any    `json:"quantity"`
}

// NormalizeLines converts loose line input into strict OrderLines, enforcing
// the draft invariants: at least one line, a non-empty item id per line,
// qty > 0, rate >= 0, tax >= 0.
func NormalizeLines(in []LineInput) ([]OrderLine, error) {
	if len(in) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "order must contain at least one line"}
	}
	out := make([]OrderLine, 0, len(in))
	for i, li := range in {
		field := fmt.Sprintf("items[%d]", i)
		itemID := strings.TrimSpace(li.ItemID)
		if itemID == "" {
			return nil, &ValidationError{Field: field + ".item_id", Reason: "line is missing its item id"}
		}
		qty, err := toNumber(li.Qty, 0)
		if err != nil {
			return nil, &ValidationError{Field: field + ".qty", Reason: err.Error()}
		}
		if qty <= 0 {
			return nil, &ValidationError{Field: field + ".qty", Reason: "quantity must be greater than zero"}
		}
		rate, err := toNumber(li.Rate, 0)
		if err != nil {
			return nil, &ValidationError{Field: field + ".rate", Reason: err.Error()}
		}
		if rate < 0 {
			return nil, &ValidationError{Field: field + ".rate", Reason: "rate must not be negative"}
		}
		tax, err := toNumber(li.Tax, 0)
		if err != nil {
			return nil, &ValidationError{Field: field + ".tax", Reason: err.Error()}
		}
		if tax < 0 {
			return nil, &ValidationError{Field: field + ".tax", Reason: "tax must not be negative"}
		}
		out = append(out, OrderLine{
			ItemID: itemID,
			Name:   strings.TrimSpace(li.Name),
			SKU:    strings.TrimSpace(li.SKU),
			Qty:    qty,
			Rate:   rate,
			Tax:    tax,
		})
	}
	return out, nil
}

// NormalizePlan converts loose plan input into strict PlanRows. Structural
// problems (blank item id, non-positive quantity) are validation errors here;
// per-row procurement problems are classified later by the fan-out itself.
func NormalizePlan(in []PlanInput) ([]PlanRow, error) {
	out := make([]PlanRow, 0, len(in))
	for i, pi := range in {
		field := fmt.Sprintf("purchasePlan[%d]", i)
		qty, err := toNumber(pi.Quantity, 0)
		if err != nil {
			return nil, &ValidationError{Field: field + ".quantity", Reason: err.Error()}
		}
		out = append(out, PlanRow{
			ItemID:   strings.TrimSpace(pi.ItemID),
			Quantity: qty,
		})
	}
	return out, nil
}

// toNumber coerces the value shapes encoding/json can produce (plus numeric
// strings from form-ish clients) into a float64. nil yields the default.
func toNumber(v any, def float64) (float64, error) {
	switch n := v.(type) {
	case nil:
		return def, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", n.String())
		}
		return f, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return def, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric value of type %T", v)
	}
}
