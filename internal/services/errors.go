// Package services implements the business logic of the order backend:
// contact resolution, sales-order orchestration, purchase-plan fan-out, and
// the read-only catalog facade. This file centralizes the error conditions
// services surface so handlers can map them to HTTP results consistently.
//
// Every message below is written for direct display to an operator; nothing
// internal (stack traces, raw identifiers of the remote tenant) leaks through.
package services

import (
	"errors"
	"fmt"
)

// ErrContactResolution indicates no safe contact identity could be found or
// created for the customer on a draft order.
var ErrContactResolution = errors.New("could not resolve or create the customer contact")

// AmbiguousOrderError reports that the remote signalled the order was created
// but the order could not be located afterwards. This is a genuine unresolved
// state requiring manual reconciliation; it is never folded into success or
// plain failure.
type AmbiguousOrderError struct {
	ReferenceNumber string
}

// Error implements the error interface.
func (e *AmbiguousOrderError) Error() string {
	return fmt.Sprintf("the order may have been created but could not be located; check the remote system for reference %s", e.ReferenceNumber)
}

// BindingMismatchError reports that the created order came back bound to a
// different contact than the one resolved for the draft. The order exists but
// is attached to the wrong customer — a fatal integrity violation that must
// never be silently accepted.
type BindingMismatchError struct {
	OrderID           string
	ExpectedContactID string
	ActualContactID   string
}

// Error implements the error interface.
func (e *BindingMismatchError) Error() string {
	return fmt.Sprintf("order %s was created but is bound to contact %s instead of the resolved contact %s; manual correction required",
		e.OrderID, e.ActualContactID, e.ExpectedContactID)
}
