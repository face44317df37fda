// Package services – ContactService
//
// This file implements idempotent contact resolution: mapping a loosely
// specified customer (name/email/phone) onto exactly one remote contact,
// creating it only when no safe match exists. Resolution is deterministic
// against stable remote state; concurrent writers on the remote side can
// still race, which is why the matching discipline is deliberately exact.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/sysutil"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// nameSearchLimit bounds the broad name search. The remote full-text search
// has no exact filter, so a page this size is fetched and filtered locally.
const nameSearchLimit = 50

// ContactsAPI defines the remote contact operations ContactService needs.
// *zoho.Client satisfies it.
type ContactsAPI interface {
	SearchContactsByEmail(ctx context.Context, email string) ([]zoho.Contact, error)
	SearchContacts(ctx context.Context, text string, page, perPage int) ([]zoho.Contact, *zoho.PageContext, error)
	CreateContact(ctx context.Context, nc zoho.NewContact) (*zoho.Contact, error)
	UpdateContact(ctx context.Context, id string, patch map[string]any) error
}

// ContactService resolves customers to remote contact ids.
type ContactService struct {
	API ContactsAPI
}

// NewContactService constructs a ContactService.
func NewContactService(api ContactsAPI) *ContactService {
	return &ContactService{API: api}
}

// Ensure returns the remote contact id for the customer, creating the contact
// when no safe match exists. Steps, each short-circuiting on success:
//
//  1. exact email lookup,
//  2. broad name search filtered locally to case-insensitive trimmed
//     equality (a fuzzy hit alone must never bind an order),
//  3. creation, with a recovery pass when the remote reports an error status
//     for a write that nevertheless committed.
//
// After an id is obtained, the stored record is enriched best-effort (email
// and phone backfill, primary contact person); enrichment failures are logged
// and swallowed because the id is already usable.
func (s *ContactService) Ensure(ctx context.Context, cust domain.Customer) (string, error) {
	if !cust.HasIdentity() {
		return "", &domain.ValidationError{Field: "customer", Reason: "customer needs a name or an email"}
	}

	name := strings.TrimSpace(cust.Name)
	email := strings.TrimSpace(cust.Email)
	phone := strings.TrimSpace(cust.Phone)

	if found, err := s.lookup(ctx, name, email); err != nil {
		return "", err
	} else if found != nil {
		s.enrich(ctx, found, email, phone)
		return found.ContactID, nil
	}

	nc := zoho.NewContact{
		ContactName: sysutil.FirstNonEmpty(name, email, "Unnamed Contact"),
		Email:       email,
		Phone:       phone,
	}
	if email != "" {
		// Mirror the email into a primary contact person so it is visible
		// through whichever field the remote UI or a later reader consults.
		nc.ContactPersons = []zoho.ContactPerson{{Email: email, IsPrimaryContact: true}}
	}

	created, err := s.API.CreateContact(ctx, nc)
	if err == nil {
		s.enrich(ctx, created, email, phone)
		return created.ContactID, nil
	}

	if !zoho.CreatedDespiteError(err) {
		return "", fmt.Errorf("create contact: %w", err)
	}

	// The write committed despite the error status. Recover the id through
	// the same lookup discipline used before creation.
	log.Warn().Err(err).Str("contact_name", nc.ContactName).
		Msg("contact creation returned an error for a committed write, re-querying")
	found, lerr := s.lookup(ctx, name, email)
	if lerr == nil && found != nil {
		s.enrich(ctx, found, email, phone)
		return found.ContactID, nil
	}

	return "", fmt.Errorf("%w: %s", ErrContactResolution, nc.ContactName)
}

// lookup runs the two match strategies in order. A nil contact with nil error
// means no safe match exists.
func (s *ContactService) lookup(ctx context.Context, name, email string) (*zoho.Contact, error) {
	if email != "" {
		contacts, err := s.API.SearchContactsByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("contact lookup by email: %w", err)
		}
		for i := range contacts {
			if strings.EqualFold(strings.TrimSpace(contacts[i].Email), email) {
				return &contacts[i], nil
			}
		}
	}

	if name != "" {
		contacts, _, err := s.API.SearchContacts(ctx, name, 1, nameSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("contact lookup by name: %w", err)
		}
		for i := range contacts {
			if strings.EqualFold(strings.TrimSpace(contacts[i].ContactName), name) {
				return &contacts[i], nil
			}
		}
	}

	return nil, nil
}

// enrich patches the resolved contact when its stored email differs from the
// requested one, its phone is empty while one was supplied, or it lacks a
// primary contact person carrying an email. Failures are logged and
// swallowed; the resolution already succeeded.
func (s *ContactService) enrich(ctx context.Context, c *zoho.Contact, email, phone string) {
	patch := map[string]any{}

	if email != "" && !strings.EqualFold(strings.TrimSpace(c.Email), email) {
		patch["email"] = email
	}
	if phone != "" && strings.TrimSpace(c.Phone) == "" {
		patch["phone"] = phone
	}
	if email != "" && !hasPrimaryPersonWithEmail(c) {
		patch["contact_persons"] = []zoho.ContactPerson{{Email: email, IsPrimaryContact: true}}
	}

	if len(patch) == 0 {
		return
	}
	if err := s.API.UpdateContact(ctx, c.ContactID, patch); err != nil {
		log.Warn().Err(err).Str("contact_id", c.ContactID).Msg("contact enrichment failed, continuing")
	}
}

func hasPrimaryPersonWithEmail(c *zoho.Contact) bool {
	for _, p := range c.ContactPersons {
		if p.IsPrimaryContact && strings.TrimSpace(p.Email) != "" {
			return true
		}
	}
	return false
}
