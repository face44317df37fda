package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ordersync/go-orders-backend/internal/domain"
	"github.com/ordersync/go-orders-backend/internal/zoho"
)

// fakeContactsAPI scripts the remote contact surface. Search results are
// consumed in sequence so tests can model state changing between calls.
type fakeContactsAPI struct {
	emailResults [][]zoho.Contact // popped per SearchContactsByEmail call
	nameResults  [][]zoho.Contact // popped per SearchContacts call
	emailErr     error
	nameErr      error

	created   *zoho.Contact
	createErr error

	updateErr error

	createCalls int
	emailCalls  int
	nameCalls   int
	updates     []map[string]any
}

func (f *fakeContactsAPI) SearchContactsByEmail(_ context.Context, email string) ([]zoho.Contact, error) {
	f.emailCalls++
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	if len(f.emailResults) == 0 {
		return nil, nil
	}
	r := f.emailResults[0]
	f.emailResults = f.emailResults[1:]
	return r, nil
}

func (f *fakeContactsAPI) SearchContacts(_ context.Context, text string, page, perPage int) ([]zoho.Contact, *zoho.PageContext, error) {
	f.nameCalls++
	if f.nameErr != nil {
		return nil, nil, f.nameErr
	}
	if len(f.nameResults) == 0 {
		return nil, nil, nil
	}
	r := f.nameResults[0]
	f.nameResults = f.nameResults[1:]
	return r, nil, nil
}

func (f *fakeContactsAPI) CreateContact(_ context.Context, nc zoho.NewContact) (*zoho.Contact, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &zoho.Contact{ContactID: "new-1", ContactName: nc.ContactName, Email: nc.Email, Phone: nc.Phone, ContactPersons: nc.ContactPersons}, nil
}

func (f *fakeContactsAPI) UpdateContact(_ context.Context, id string, patch map[string]any) error {
	f.updates = append(f.updates, patch)
	return f.updateErr
}

func TestEnsure_RequiresIdentity(t *testing.T) {
	s := NewContactService(&fakeContactsAPI{})
	_, err := s.Ensure(context.Background(), domain.Customer{Phone: "555"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEnsure_IdempotentForExistingEmail(t *testing.T) {
	existing := zoho.Contact{
		ContactID: "c-9", ContactName: "Acme", Email: "buyer@acme.test",
		ContactPersons: []zoho.ContactPerson{{Email: "buyer@acme.test", IsPrimaryContact: true}},
	}
	api := &fakeContactsAPI{emailResults: [][]zoho.Contact{{existing}, {existing}}}
	s := NewContactService(api)

	cust := domain.Customer{Name: "Acme", Email: "buyer@acme.test"}
	id1, err := s.Ensure(context.Background(), cust)
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	id2, err := s.Ensure(context.Background(), cust)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if id1 != "c-9" || id2 != "c-9" {
		t.Fatalf("expected stable id c-9, got %q then %q", id1, id2)
	}
	if api.createCalls != 0 {
		t.Fatalf("resolution of an existing contact must not create, got %d creations", api.createCalls)
	}
}

func TestEnsure_NameMatchIsExactAfterTrimAndFold(t *testing.T) {
	api := &fakeContactsAPI{
		nameResults: [][]zoho.Contact{{
			{ContactID: "near", ContactName: "John Smith Jr"},
			{ContactID: "exact", ContactName: " john smith "},
		}},
	}
	s := NewContactService(api)

	id, err := s.Ensure(context.Background(), domain.Customer{Name: "John Smith"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if id != "exact" {
		t.Fatalf("must bind only the case-insensitive trimmed exact match, got %q", id)
	}
	if api.createCalls != 0 {
		t.Fatal("exact match must short-circuit creation")
	}
}

func TestEnsure_FuzzyHitAloneDoesNotBind(t *testing.T) {
	api := &fakeContactsAPI{
		nameResults: [][]zoho.Contact{{{ContactID: "near", ContactName: "John Smith Jr"}}},
	}
	s := NewContactService(api)

	id, err := s.Ensure(context.Background(), domain.Customer{Name: "John Smith"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if id == "near" {
		t.Fatal("a text-search hit without exact equality must not be bound")
	}
	if api.createCalls != 1 {
		t.Fatalf("expected a fresh contact, got %d creations", api.createCalls)
	}
}

func TestEnsure_CreatesWithPrimaryContactPerson(t *testing.T) {
	api := &fakeContactsAPI{}
	s := NewContactService(api)

	id, err := s.Ensure(context.Background(), domain.Customer{Name: "Acme", Email: "buyer@acme.test", Phone: "555"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if id != "new-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if api.createCalls != 1 {
		t.Fatalf("expected 1 creation, got %d", api.createCalls)
	}
}

func TestEnsure_FallbackNameWhenOnlyEmail(t *testing.T) {
	api := &fakeContactsAPI{created: &zoho.Contact{
		ContactID: "new-2", ContactName: "buyer@acme.test", Email: "buyer@acme.test",
		ContactPersons: []zoho.ContactPerson{{Email: "buyer@acme.test", IsPrimaryContact: true}},
	}}
	s := NewContactService(api)

	id, err := s.Ensure(context.Background(), domain.Customer{Email: "buyer@acme.test"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if id != "new-2" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestEnsure_RecoversWhenCreationErrorsButCommits(t *testing.T) {
	api := &fakeContactsAPI{
		// First lookup round finds nothing; the post-creation round does.
		emailResults: [][]zoho.Contact{nil, {{ContactID: "c-77", ContactName: "Acme", Email: "buyer@acme.test"}}},
		createErr:    &zoho.APIError{StatusCode: 400, Message: "The contact has been created."},
	}
	s := NewContactService(api)

	id, err := s.Ensure(context.Background(), domain.Customer{Name: "Acme", Email: "buyer@acme.test"})
	if err != nil {
		t.Fatalf("ensure should recover, got %v", err)
	}
	if id != "c-77" {
		t.Fatalf("expected recovered id c-77, got %q", id)
	}
	if api.createCalls != 1 {
		t.Fatalf("recovery must not re-create, got %d creations", api.createCalls)
	}
}

func TestEnsure_UnrecoverableAfterQuirk(t *testing.T) {
	api := &fakeContactsAPI{
		createErr: &zoho.APIError{StatusCode: 400, Message: "The contact has been created."},
	}
	s := NewContactService(api)

	_, err := s.Ensure(context.Background(), domain.Customer{Name: "Acme"})
	if !errors.Is(err, ErrContactResolution) {
		t.Fatalf("expected ErrContactResolution, got %v", err)
	}
}

func TestEnsure_PropagatesOrdinaryCreateFailure(t *testing.T) {
	api := &fakeContactsAPI{
		createErr: &zoho.APIError{StatusCode: 400, Message: "Invalid email"},
	}
	s := NewContactService(api)

	_, err := s.Ensure(context.Background(), domain.Customer{Name: "Acme"})
	var ae *zoho.APIError
	if !errors.As(err, &ae) || ae.Message != "Invalid email" {
		t.Fatalf("expected APIError passthrough, got %v", err)
	}
}

func TestEnsure_EnrichesStaleRecord(t *testing.T) {
	api := &fakeContactsAPI{
		emailResults: [][]zoho.Contact{{{ContactID: "c-1", ContactName: "Acme", Email: "buyer@acme.test"}}},
	}
	s := NewContactService(api)

	// Phone supplied but missing remotely, and no primary contact person.
	if _, err := s.Ensure(context.Background(), domain.Customer{Name: "Acme", Email: "buyer@acme.test", Phone: "555"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if len(api.updates) != 1 {
		t.Fatalf("expected one enrichment patch, got %d", len(api.updates))
	}
	patch := api.updates[0]
	if patch["phone"] != "555" {
		t.Fatalf("phone backfill missing: %+v", patch)
	}
	if _, ok := patch["contact_persons"]; !ok {
		t.Fatalf("primary contact person backfill missing: %+v", patch)
	}
}

func TestEnsure_EnrichmentFailureIsSwallowed(t *testing.T) {
	api := &fakeContactsAPI{
		emailResults: [][]zoho.Contact{{{ContactID: "c-1", ContactName: "Acme", Email: "other@acme.test"}}},
		updateErr:    &zoho.APIError{StatusCode: 500, Message: "boom"},
	}
	s := NewContactService(api)

	id, err := s.Ensure(context.Background(), domain.Customer{Name: "Acme", Email: "other@acme.test", Phone: "555"})
	if err != nil {
		t.Fatalf("enrichment failure must never fail resolution, got %v", err)
	}
	if id != "c-1" {
		t.Fatalf("unexpected id %q", id)
	}
}
