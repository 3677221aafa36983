// Package domain contains the validated financial document model.
package domain

// DocumentType selects the document template.
type DocumentType string

const (
	DocumentTypeInvoice   DocumentType = "invoice"
	DocumentTypeReceipt   DocumentType = "receipt"
	DocumentTypeQuotation DocumentType = "quotation"
	DocumentTypeProforma  DocumentType = "proforma"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeReceipt, DocumentTypeQuotation, DocumentTypeProforma:
		return true
	default:
		return false
	}
}

// Title is the heading printed on the rendered document.
func (t DocumentType) Title() string {
	switch t {
	case DocumentTypeReceipt:
		return "RECEIPT"
	case DocumentTypeQuotation:
		return "QUOTATION"
	case DocumentTypeProforma:
		return "PROFORMA INVOICE"
	default:
		return "INVOICE"
	}
}

// Party identifies one side of the document.
type Party struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItem is a single billed position. TaxRate is a percentage.
type LineItem struct {
	Description string  `json:"description" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	TaxRate     float64 `json:"tax_rate" validate:"gte=0,lte=100"`
}

// Amount is the extended line amount before tax.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

// Tax is the tax portion for this line.
func (li LineItem) Tax() float64 {
	return li.Amount() * li.TaxRate / 100
}

// Branding carries cosmetic options honored only for premium renders.
type Branding struct {
	AccentColor string `json:"accent_color" validate:"omitempty,hexcolor"`
	FooterNote  string `json:"footer_note"`
}

// Payload is a fully validated document request. Field order matters: the
// validator reports violations in declaration order.
type Payload struct {
	DocumentType   DocumentType `json:"document_type" validate:"required,document_type"`
	DocumentNumber string       `json:"document_number" validate:"required"`
	Issuer         Party        `json:"issuer"`
	Customer       Party        `json:"customer"`
	Items          []LineItem   `json:"items" validate:"required,min=1,dive"`
	Currency       string       `json:"currency" validate:"required,iso4217"`
	IssueDate      string       `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate        string       `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string       `json:"notes"`
	Branding       *Branding    `json:"branding"`
}

// Totals are always derived from line items. Caller-supplied aggregates are
// ignored so a forged total can never appear on a generated document.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

func (p Payload) ComputeTotals() Totals {
	var t Totals
	for _, item := range p.Items {
		t.Subtotal += item.Amount()
		t.Tax += item.Tax()
	}
	t.Total = t.Subtotal + t.Tax
	return t
}
