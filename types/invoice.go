package types

import "time"

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// DefaultGSTPercentage is the GST rate applied to draft invoices.
const DefaultGSTPercentage = 18

// Invoice is a billing record produced for a booking by the billing
// worker. Issuing, payment reconciliation, and the Zoho sync happen
// outside this service.
type Invoice struct {
	// ID is the unique identifier of the invoice.
	ID int `json:"id" db:"id"`

	// BookingID references the booking this invoice bills.
	BookingID int `json:"booking_id" db:"booking_id"`

	// UserID references the user being billed.
	UserID int `json:"user_id" db:"user_id"`

	// InvoiceNumber is the unique, externally visible invoice number.
	InvoiceNumber string `json:"invoice_number" db:"invoice_number"`

	// Amount is the pre-tax amount billed.
	Amount float64 `json:"amount" db:"amount"`

	// TaxAmount is the GST portion of the bill.
	TaxAmount float64 `json:"tax_amount" db:"tax_amount"`

	// Currency is the ISO currency code of Amount and TaxAmount.
	Currency string `json:"currency" db:"currency"`

	// GSTPercentage is the tax rate the invoice was computed with.
	GSTPercentage float64 `json:"gst_percentage" db:"gst_percentage"`

	// Status is the lifecycle state. Worker-created invoices are drafts.
	Status InvoiceStatus `json:"status" db:"status"`

	// IssuedAt is when the invoice was produced.
	IssuedAt time.Time `json:"issued_at" db:"issued_at"`

	// PaidAt is when the invoice was settled, if it has been.
	PaidAt *time.Time `json:"paid_at,omitempty" db:"paid_at"`

	// ZohoID is the external Zoho invoice id, set by the Zoho sync.
	ZohoID *string `json:"zoho_id,omitempty" db:"zoho_id"`

	// CreatedAt is the timestamp at which the invoice was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the invoice.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
