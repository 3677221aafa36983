package validate

import (
	"errors"
	"testing"

	"github.com/smallbiznis/invoicegen/internal/document/domain"
)

const validBody = `{
	"document_type": "invoice",
	"document_number": "INV-001",
	"issuer": {"name": "Acme Studio", "email": "billing@acme.test"},
	"customer": {"name": "Jane Doe"},
	"items": [{"description": "Design work", "quantity": 2, "unit_price": 100}],
	"currency": "USD"
}`

func TestParseValidInvoice(t *testing.T) {
	v := New()

	payload, err := v.Parse([]byte(validBody))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if payload.DocumentType != domain.DocumentTypeInvoice {
		t.Fatalf("document_type = %q", payload.DocumentType)
	}
	if payload.DocumentNumber != "INV-001" {
		t.Fatalf("document_number = %q", payload.DocumentNumber)
	}

	totals := payload.ComputeTotals()
	if totals.Subtotal != 200 {
		t.Fatalf("subtotal = %v, want 200", totals.Subtotal)
	}
	if totals.Total != 200 {
		t.Fatalf("total = %v, want 200", totals.Total)
	}
}

func TestParseComputesTax(t *testing.T) {
	v := New()

	body := `{
		"document_type": "receipt",
		"document_number": "RCP-9",
		"issuer": {"name": "Acme"},
		"customer": {"name": "Jane"},
		"items": [{"description": "Hosting", "quantity": 1, "unit_price": 50, "tax_rate": 10}],
		"currency": "EUR"
	}`
	payload, err := v.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	totals := payload.ComputeTotals()
	if totals.Subtotal != 50 {
		t.Fatalf("subtotal = %v, want 50", totals.Subtotal)
	}
	if totals.Tax != 5 {
		t.Fatalf("tax = %v, want 5", totals.Tax)
	}
	if totals.Total != 55 {
		t.Fatalf("total = %v, want 55", totals.Total)
	}
}

func TestParseCollectsAllViolations(t *testing.T) {
	v := New()

	body := `{
		"document_type": "memo",
		"issuer": {"name": ""},
		"customer": {"name": "Jane", "email": "not-an-email"},
		"items": [{"description": "", "quantity": 0, "unit_price": -1}],
		"currency": "US"
	}`
	_, err := v.Parse([]byte(body))
	if err == nil {
		t.Fatalf("expected validation errors")
	}

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	want := []domain.FieldError{
		{Field: "document_type", Message: "must be one of invoice, receipt, quotation, proforma"},
		{Field: "document_number", Message: "is required"},
		{Field: "issuer.name", Message: "is required"},
		{Field: "customer.email", Message: "must be a valid email address"},
		{Field: "items[0].description", Message: "is required"},
		{Field: "items[0].quantity", Message: "must be greater than 0"},
		{Field: "items[0].unit_price", Message: "must be at least 0"},
		{Field: "currency", Message: "must be a recognized 3-letter currency code"},
	}
	if len(verrs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(verrs), len(want), verrs)
	}
	for i, fe := range verrs {
		if fe != want[i] {
			t.Fatalf("error %d = %+v, want %+v", i, fe, want[i])
		}
	}
}

func TestParseMissingRequiredFieldNamesIt(t *testing.T) {
	v := New()

	body := `{
		"document_type": "invoice",
		"issuer": {"name": "Acme"},
		"customer": {"name": "Jane"},
		"items": [{"description": "Work", "quantity": 1, "unit_price": 10}],
		"currency": "USD"
	}`
	_, err := v.Parse([]byte(body))

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(verrs), verrs)
	}
	if verrs[0].Field != "document_number" {
		t.Fatalf("field = %q, want document_number", verrs[0].Field)
	}
}

func TestParseEmptyItemsRejected(t *testing.T) {
	v := New()

	body := `{
		"document_type": "quotation",
		"document_number": "Q-1",
		"issuer": {"name": "Acme"},
		"customer": {"name": "Jane"},
		"items": [],
		"currency": "USD"
	}`
	_, err := v.Parse([]byte(body))

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "items" {
		t.Fatalf("expected single items error, got %v", verrs)
	}
}

func TestParseMalformedBodyIsTopLevel(t *testing.T) {
	v := New()

	_, err := v.Parse([]byte(`{"document_type": "invoice",`))
	if !errors.Is(err, domain.ErrMalformedBody) {
		t.Fatalf("expected ErrMalformedBody, got %v", err)
	}
}

func TestParseWrongTypeReportsField(t *testing.T) {
	v := New()

	body := `{
		"document_type": "invoice",
		"document_number": 42,
		"issuer": {"name": "Acme"},
		"customer": {"name": "Jane"},
		"items": [{"description": "Work", "quantity": 1, "unit_price": 10}],
		"currency": "USD"
	}`
	_, err := v.Parse([]byte(body))

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "document_number" {
		t.Fatalf("expected document_number type error, got %v", verrs)
	}
}

func TestParseDueDateBeforeIssueDate(t *testing.T) {
	v := New()

	body := `{
		"document_type": "invoice",
		"document_number": "INV-2",
		"issuer": {"name": "Acme"},
		"customer": {"name": "Jane"},
		"items": [{"description": "Work", "quantity": 1, "unit_price": 10}],
		"currency": "USD",
		"issue_date": "2025-03-10",
		"due_date": "2025-03-01"
	}`
	_, err := v.Parse([]byte(body))

	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 1 || verrs[0].Field != "due_date" {
		t.Fatalf("expected due_date cross-field error, got %v", verrs)
	}
}
